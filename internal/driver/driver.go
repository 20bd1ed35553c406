// Package driver runs a Chip-8 machine at a fixed cadence.
//
// One frame samples the keypad, executes a batch of instructions and ticks
// the timers once. Frames are paced at the timer rate, so the instruction
// rate is the batch size times 60. Everything happens on the caller's
// goroutine, which is also the goroutine that polls input and renders.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/retroenv/retrogolib/log"
)

const (
	// TimerHz is the rate of the delay and sound timers.
	TimerHz = 60

	DefaultInstructionsPerSecond = 700
)

// Config holds the cadence settings.
type Config struct {
	InstructionsPerSecond int
	Trace                 bool // log every executed instruction at debug level
}

// Input is the host state sampled at the start of a frame.
type Input struct {
	Keys  [chip8.NumKeys]bool
	Reset bool
}

// Host is the window side of the emulator.
type Host interface {
	// PollInput processes pending events and returns the current input.
	PollInput() Input
	// Present shows a frame. It is only called when the display changed.
	Present(frame chip8.Frame)
}

// Driver owns a machine and decides what happens after a fault: unknown
// opcodes are logged and skipped, any other fault halts the machine until
// Reset.
type Driver struct {
	logger *log.Logger
	cfg    Config
	rom    []byte
	opts   []chip8.Option

	machine       *chip8.Chip8
	stepsPerFrame int
	frames        uint64
	halted        error
}

// New creates a driver and loads rom into a fresh machine built with opts.
func New(logger *log.Logger, cfg Config, rom []byte, opts ...chip8.Option) (*Driver, error) {
	if cfg.InstructionsPerSecond == 0 {
		cfg.InstructionsPerSecond = DefaultInstructionsPerSecond
	}
	if cfg.InstructionsPerSecond < TimerHz {
		return nil, fmt.Errorf("instruction rate %d is below the timer rate %d", cfg.InstructionsPerSecond, TimerHz)
	}

	d := &Driver{
		logger:        logger,
		cfg:           cfg,
		rom:           rom,
		opts:          opts,
		stepsPerFrame: cfg.InstructionsPerSecond / TimerHz,
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset replaces the machine with a fresh one running the same ROM and
// clears a halt.
func (d *Driver) Reset() error {
	machine := chip8.New(d.opts...)
	if err := machine.Load(d.rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	d.machine = machine
	d.halted = nil
	d.frames = 0
	d.logger.Debug("Machine reset", log.Int("rom_size", len(d.rom)), log.Int("steps_per_frame", d.stepsPerFrame))
	return nil
}

// Machine returns the current machine.
func (d *Driver) Machine() *chip8.Chip8 {
	return d.machine
}

// Err returns the fault that halted the machine, or nil while it is running.
func (d *Driver) Err() error {
	return d.halted
}

// Running reports whether the machine is executing instructions.
func (d *Driver) Running() bool {
	return d.halted == nil
}

// FramePeriod is the wall clock time of one frame, rounded down to the
// nanosecond.
func (d *Driver) FramePeriod() time.Duration {
	return time.Second / TimerHz
}

// Elapsed returns the emulated time since the last reset.
func (d *Driver) Elapsed() time.Duration {
	return time.Duration(d.frames) * time.Second / TimerHz
}

// Frame runs one frame: it commits keys to the machine, executes up to one
// batch of instructions and ticks the timers. It returns the fault that
// halted the machine, if any. A halted machine is left untouched.
func (d *Driver) Frame(keys [chip8.NumKeys]bool) error {
	if d.halted != nil {
		return d.halted
	}
	d.machine.SetKeys(keys)

	for i := 0; i < d.stepsPerFrame; i++ {
		if d.cfg.Trace {
			d.trace()
		}
		if _, err := d.machine.Step(); err != nil {
			if !d.handleFault(err.(*chip8.Fault)) {
				return err
			}
		}
	}

	d.machine.Tick()
	d.frames++
	return nil
}

// handleFault logs fault and reports whether execution can go on.
func (d *Driver) handleFault(fault *chip8.Fault) bool {
	if chip8.Recoverable(fault) {
		d.logger.Warn("Skipping unknown opcode",
			log.Hex("opcode", fault.Opcode),
			log.Hex("pc", fault.PC),
			log.String("instruction", chip8.Disassemble(fault.Opcode)))
		return true
	}

	d.halted = fault
	d.logger.Error("Machine halted",
		log.Err(fault.Err),
		log.Hex("opcode", fault.Opcode),
		log.Hex("pc", fault.PC),
		log.String("instruction", chip8.Disassemble(fault.Opcode)))
	return false
}

func (d *Driver) trace() {
	op, ok := d.machine.Opcode()
	if !ok {
		return
	}
	d.logger.Debug("Step",
		log.Hex("pc", d.machine.PC()),
		log.Hex("opcode", op),
		log.String("instruction", chip8.Disassemble(op)))
}

// Run paces frames at the timer rate until ctx is cancelled. The host is
// polled once per frame, before any instruction of that frame executes.
// A halted machine keeps the loop alive so the host can show the fault and
// request a reset.
func (d *Driver) Run(ctx context.Context, host Host) error {
	ticker := time.NewTicker(d.FramePeriod())
	defer ticker.Stop()

	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		input := host.PollInput()
		if input.Reset {
			if err := d.Reset(); err != nil {
				return err
			}
		}

		_ = d.Frame(input.Keys) // halts are kept in d.halted

		if frame, ok := d.machine.ConsumeFrame(); ok {
			host.Present(frame)
		}
	}
	return nil
}
