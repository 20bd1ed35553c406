package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/internal/cli"
	"github.com/inrick/chip8-go/internal/config"
	"github.com/inrick/chip8-go/internal/driver"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := run(logger, opts); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(logger *log.Logger, opts cli.Options) error {
	rom, err := chip8.ReadRom(opts.Rom)
	if err != nil {
		return err
	}

	var machineOpts []chip8.Option
	if opts.Seed != 0 {
		machineOpts = append(machineOpts, chip8.WithSeed(opts.Seed))
	}
	if !opts.Mute {
		b, err := newBeeper()
		if err != nil {
			logger.Warn("Audio unavailable, beeper disabled", log.Err(err))
		} else {
			defer b.Close()
			machineOpts = append(machineOpts, chip8.WithBeeper(b.Beep))
		}
	}

	d, err := driver.New(logger, driver.Config{
		InstructionsPerSecond: opts.IPS,
		Trace:                 opts.Trace,
	}, rom, machineOpts...)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing GLFW: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width := chip8.DisplayWidth * opts.Scale
	height := chip8.DisplayHeight * opts.Scale
	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()

	vertex, err := glSetup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(app.Context())
	defer cancel()

	host := newWindowHost(window, vertex, cancel)
	host.driver = d

	logger.Info("Running",
		log.String("rom", opts.Rom),
		log.Int("rom_size", len(rom)),
		log.Int("ips", opts.IPS))

	if err := d.Run(ctx, host); err != nil {
		return err
	}
	logger.Info("Stopped", log.String("emulated", d.Elapsed().String()))
	return nil
}
