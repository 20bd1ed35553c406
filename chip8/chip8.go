// Package chip8 implements a Chip-8 interpreter.
// Follows description in Cowgod's Chip-8 Technical Reference v1.0 [1] and
// How to write an emulator [2].
//
//	[1] http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//	[2] http://www.multigesture.net/articles/how-to-write-an-emulator-chip-8-interpreter/
//
// The interpreter never blocks. A host drives it by calling Step at the
// instruction rate and Tick at 60 Hz, feeding key state through SetKeys and
// reading the display through ConsumeFrame.
package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"time"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
	NumKeys       = 0x10
	MemorySize    = 0x1000
	StackSize     = 0x10
	ProgramStart  = 0x200
	MaxRomSize    = MemorySize - ProgramStart
)

// Frame is a copy of the display buffer, one byte (0 or 1) per pixel,
// row-major and indexed as x + y*DisplayWidth.
type Frame [DisplayWidth * DisplayHeight]uint8

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Frame) Pixel(x, y int) bool {
	return f[x+y*DisplayWidth] != 0
}

// Option configures a Chip8 created by New.
type Option func(*Chip8)

// WithSeed seeds the generator used by Cxkk.
func WithSeed(seed int64) Option {
	return func(c8 *Chip8) {
		r := rand.New(rand.NewSource(seed))
		c8.random = func() uint8 { return uint8(r.Intn(0x100)) }
	}
}

// WithRandom replaces the byte source used by Cxkk.
func WithRandom(fn func() uint8) Option {
	return func(c8 *Chip8) { c8.random = fn }
}

// WithBeeper registers a callback invoked once each time the sound timer
// runs out.
func WithBeeper(fn func()) Option {
	return func(c8 *Chip8) { c8.beep = fn }
}

// keyWait holds the state of a pending Fx0A.
type keyWait struct {
	active bool
	saved  [NumKeys]bool
}

type Chip8 struct {
	gfx    Frame
	key    [NumKeys]bool
	draw   bool
	mem    [MemorySize]uint8
	v      [0x10]uint8
	stack  [StackSize]uint16
	i, pc  uint16
	sp     uint8
	dt, st uint8 // Delay timer & sound timer
	wait   keyWait
	random func() uint8
	beep   func()
}

// New returns a machine with cleared registers, the font loaded at 0x000
// and the program counter at ProgramStart.
func New(opts ...Option) *Chip8 {
	c8 := &Chip8{pc: ProgramStart}
	copy(c8.mem[:], fontset[:])
	WithSeed(time.Now().UnixNano())(c8)
	for _, opt := range opts {
		opt(c8)
	}
	return c8
}

// Load copies a program into memory at ProgramStart. Programs that do not
// fit leave the machine untouched.
func (c8 *Chip8) Load(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrRomTooLarge, len(rom), MaxRomSize)
	}
	copy(c8.mem[ProgramStart:], rom)
	return nil
}

// LoadRom reads a program from disk and loads it.
func (c8 *Chip8) LoadRom(romPath string) error {
	rom, err := ReadRom(romPath)
	if err != nil {
		return err
	}
	return c8.Load(rom)
}

// ReadRom reads a ROM file without loading it, rejecting files larger than
// the program area.
func ReadRom(romPath string) ([]byte, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file: %w", err)
	}
	if len(rom) > MaxRomSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrRomTooLarge, romPath, len(rom), MaxRomSize)
	}
	return rom, nil
}

// SetKeys replaces the whole keypad state at once.
func (c8 *Chip8) SetKeys(keys [NumKeys]bool) {
	c8.key = keys
}

// Keys returns the current keypad state.
func (c8 *Chip8) Keys() [NumKeys]bool {
	return c8.key
}

// DrawFlag reports whether the display changed since the last ConsumeFrame.
func (c8 *Chip8) DrawFlag() bool {
	return c8.draw
}

// Frame returns a copy of the display buffer.
func (c8 *Chip8) Frame() Frame {
	return c8.gfx
}

// ConsumeFrame returns the display buffer and clears the draw flag. ok is
// false if nothing was drawn since the previous call.
func (c8 *Chip8) ConsumeFrame() (frame Frame, ok bool) {
	if !c8.draw {
		return frame, false
	}
	c8.draw = false
	return c8.gfx, true
}

// PC returns the program counter.
func (c8 *Chip8) PC() uint16 {
	return c8.pc
}

// V returns register Vx.
func (c8 *Chip8) V(x uint8) uint8 {
	return c8.v[x&0xf]
}

// I returns the index register.
func (c8 *Chip8) I() uint16 {
	return c8.i
}

// SP returns the stack pointer.
func (c8 *Chip8) SP() uint8 {
	return c8.sp
}

// Timers returns the delay and sound timer values.
func (c8 *Chip8) Timers() (delay, sound uint8) {
	return c8.dt, c8.st
}

// Waiting reports whether an Fx0A is waiting for a key transition.
func (c8 *Chip8) Waiting() bool {
	return c8.wait.active
}

// Opcode returns the instruction word at the program counter, or false if
// the program counter is outside memory.
func (c8 *Chip8) Opcode() (uint16, bool) {
	return c8.fetch(c8.pc)
}

func (c8 *Chip8) fetch(addr uint16) (uint16, bool) {
	if int(addr)+1 >= MemorySize {
		return 0, false
	}
	return uint16(c8.mem[addr])<<8 | uint16(c8.mem[addr+1]), true
}
