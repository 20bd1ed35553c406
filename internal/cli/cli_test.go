package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{"game.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "game.ch8", opts.Rom)
	assert.Equal(t, 700, opts.IPS)
	assert.Equal(t, defaultScale, opts.Scale)
	assert.False(t, opts.Debug)

	opts, err = ParseFlags([]string{"-ips", "1000", "-scale", "8", "-seed", "42", "-mute", "-trace", "pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.Rom)
	assert.Equal(t, 1000, opts.IPS)
	assert.Equal(t, 8, opts.Scale)
	assert.Equal(t, int64(42), opts.Seed)
	assert.True(t, opts.Mute)
	assert.True(t, opts.Trace)
	assert.True(t, opts.Debug)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"no rom", nil, "invalid arguments"},
		{"two roms", []string{"a.ch8", "b.ch8"}, "invalid arguments"},
		{"unknown flag", []string{"-bogus", "a.ch8"}, "bogus"},
		{"ips too low", []string{"-ips", "10", "a.ch8"}, "-ips must be between"},
		{"ips too high", []string{"-ips", "20000", "a.ch8"}, "-ips must be between"},
		{"bad scale", []string{"-scale", "0", "a.ch8"}, "-scale must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.ErrorContains(t, err, tt.errContains)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.Contains(t, buf.String(), "usage: chip8")
			assert.Contains(t, buf.String(), "-ips")
		})
	}
}
