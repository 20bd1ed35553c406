// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/inrick/chip8-go/internal/driver"
)

const (
	defaultScale = 15
	maxIPS       = 10000
)

// Options holds the parsed command line.
type Options struct {
	Rom   string
	IPS   int
	Scale int
	Seed  int64
	Mute  bool
	Debug bool
	Quiet bool
	Trace bool
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid arguments"
	}
	return e.msg
}

// ShowUsage prints the usage text to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: chip8 [options] <rom file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the program arguments, without the program name.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	flags.IntVar(&opts.IPS, "ips", driver.DefaultInstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "window pixels per Chip-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed, 0 seeds from the clock")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the beeper")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if flags.NArg() != 1 {
		return opts, &UsageError{flags: flags}
	}
	opts.Rom = flags.Arg(0)

	if opts.IPS < driver.TimerHz || opts.IPS > maxIPS {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("-ips must be between %d and %d", driver.TimerHz, maxIPS),
		}
	}
	if opts.Scale < 1 {
		return opts, &UsageError{flags: flags, msg: "-scale must be positive"}
	}
	if opts.Trace {
		opts.Debug = true
	}
	return opts, nil
}
