package driver

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/inrick/chip8-go/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func program(words ...uint16) []byte {
	rom := make([]byte, 0, 2*len(words))
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestDriver(t *testing.T, ips int, rom []byte, opts ...chip8.Option) *Driver {
	t.Helper()
	return newDriverWithLogger(t, log.NewTestLogger(t), ips, rom, opts...)
}

// newHaltingDriver is for programs that fault. The test logger fails the
// test on error records, which is how a halt is reported.
func newHaltingDriver(t *testing.T, ips int, rom []byte, opts ...chip8.Option) *Driver {
	t.Helper()
	cfg := log.DefaultConfig()
	cfg.Level = log.DebugLevel
	cfg.Output = io.Discard
	return newDriverWithLogger(t, log.NewWithConfig(cfg), ips, rom, opts...)
}

func newDriverWithLogger(t *testing.T, logger *log.Logger, ips int, rom []byte, opts ...chip8.Option) *Driver {
	t.Helper()
	d, err := New(logger, Config{InstructionsPerSecond: ips, Trace: true}, rom, opts...)
	assert.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	d := newTestDriver(t, 0, program(0x1200))
	assert.Equal(t, DefaultInstructionsPerSecond/TimerHz, d.stepsPerFrame)
	assert.True(t, d.Running())
	assert.Nil(t, d.Err())
	assert.Equal(t, time.Duration(0), d.Elapsed())

	_, err := New(log.NewTestLogger(t), Config{InstructionsPerSecond: 30}, nil)
	assert.Error(t, err)

	_, err = New(log.NewTestLogger(t), Config{}, make([]byte, chip8.MaxRomSize+1))
	assert.True(t, errors.Is(err, chip8.ErrRomTooLarge))
}

func TestFrameRunsBatchAndTicksOnce(t *testing.T) {
	// V0 += 1 forever.
	d := newTestDriver(t, 600, program(0x7001, 0x1200), chip8.WithSeed(1))

	var keys [chip8.NumKeys]bool
	assert.NoError(t, d.Frame(keys))
	assert.Equal(t, uint8(5), d.Machine().V(0))
	assert.Equal(t, uint16(0x200), d.Machine().PC())

	assert.NoError(t, d.Frame(keys))
	assert.Equal(t, uint8(10), d.Machine().V(0))
	assert.Equal(t, 2*time.Second/TimerHz, d.Elapsed())
}

func TestElapsedDoesNotDrift(t *testing.T) {
	d := newTestDriver(t, 60, program(0x1200))

	var keys [chip8.NumKeys]bool
	for i := 0; i < TimerHz; i++ {
		assert.NoError(t, d.Frame(keys))
	}
	assert.Equal(t, time.Second, d.Elapsed())

	d.frames = 60 * 60 * TimerHz
	assert.Equal(t, time.Hour, d.Elapsed())
}

func TestFrameTicksTimers(t *testing.T) {
	beeps := 0
	// ST = V0 = 2, then spin.
	d := newTestDriver(t, 120, program(0x6002, 0xf018, 0x1204), chip8.WithBeeper(func() { beeps++ }))

	var keys [chip8.NumKeys]bool
	assert.NoError(t, d.Frame(keys)) // sets ST to 2, tick to 1
	_, st := d.Machine().Timers()
	assert.Equal(t, uint8(1), st)
	assert.Equal(t, 0, beeps)

	assert.NoError(t, d.Frame(keys))
	assert.Equal(t, 1, beeps)
	assert.NoError(t, d.Frame(keys))
	assert.Equal(t, 1, beeps)
}

func TestFrameSamplesKeys(t *testing.T) {
	d := newTestDriver(t, 120, program(0xf50a, 0x1202))

	var keys [chip8.NumKeys]bool
	assert.NoError(t, d.Frame(keys))
	assert.True(t, d.Machine().Waiting())
	assert.Equal(t, uint16(0x200), d.Machine().PC())

	keys[0xe] = true
	assert.NoError(t, d.Frame(keys))
	assert.False(t, d.Machine().Waiting())
	assert.Equal(t, uint8(0xe), d.Machine().V(5))
	assert.Equal(t, uint16(0x202), d.Machine().PC())
}

func TestFrameSkipsUnknownOpcode(t *testing.T) {
	d := newTestDriver(t, 180, program(0xffff, 0x6007, 0x1204))

	var keys [chip8.NumKeys]bool
	assert.NoError(t, d.Frame(keys))
	assert.True(t, d.Running())
	assert.Equal(t, uint8(7), d.Machine().V(0))
}

func TestFrameHaltsOnFault(t *testing.T) {
	d := newHaltingDriver(t, 120, program(0x00ee, 0x6001))

	var keys [chip8.NumKeys]bool
	err := d.Frame(keys)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.False(t, d.Running())
	assert.True(t, errors.Is(d.Err(), chip8.ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), d.Machine().PC())
	assert.Equal(t, time.Duration(0), d.Elapsed())

	// Further frames do nothing.
	err = d.Frame(keys)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.Equal(t, uint8(0), d.Machine().V(0))

	assert.NoError(t, d.Reset())
	assert.True(t, d.Running())
	assert.Equal(t, uint16(0x200), d.Machine().PC())
}

type fakeHost struct {
	polls    int
	frames   []chip8.Frame
	reset    bool
	maxPolls int
	cancel   context.CancelFunc
}

func (h *fakeHost) PollInput() Input {
	h.polls++
	if h.polls >= h.maxPolls {
		h.cancel()
	}
	input := Input{Reset: h.reset}
	h.reset = false
	return input
}

func (h *fakeHost) Present(frame chip8.Frame) {
	h.frames = append(h.frames, frame)
}

func TestRun(t *testing.T) {
	// Draw the glyph for 0 and spin.
	d := newTestDriver(t, 120, program(0xd005, 0x1202))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	host := &fakeHost{maxPolls: 3, cancel: cancel}

	assert.NoError(t, d.Run(ctx, host))
	assert.Equal(t, 3, host.polls)
	assert.Len(t, host.frames, 1)
	assert.True(t, host.frames[0].Pixel(0, 0))
}

func TestRunReset(t *testing.T) {
	d := newHaltingDriver(t, 60, program(0x00ee))

	var keys [chip8.NumKeys]bool
	assert.Error(t, d.Frame(keys))
	assert.False(t, d.Running())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	host := &fakeHost{maxPolls: 1, cancel: cancel, reset: true}

	assert.NoError(t, d.Run(ctx, host))
	// The reset machine executed the faulting RET again.
	assert.False(t, d.Running())
	assert.Equal(t, 1, host.polls)
}

func TestRunStopsOnCancel(t *testing.T) {
	d := newTestDriver(t, 60, program(0x1200))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := &fakeHost{maxPolls: 100, cancel: cancel}
	assert.NoError(t, d.Run(ctx, host))
	assert.Equal(t, 0, host.polls)
}
