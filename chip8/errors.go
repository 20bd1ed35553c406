package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is recoverable: the instruction is skipped.
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrMemoryOutOfRange = errors.New("memory access out of range")
	ErrRomTooLarge      = errors.New("ROM file too big")
)

// Fault is returned by Step. It records the instruction word and the
// program counter it was fetched from.
type Fault struct {
	Err    error
	Opcode uint16
	PC     uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: opcode 0x%04x at 0x%03x", f.Err, f.Opcode, f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Recoverable reports whether execution may continue after err.
func Recoverable(err error) bool {
	return errors.Is(err, ErrUnknownOpcode)
}
