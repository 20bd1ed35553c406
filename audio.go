package main

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	beepSampleRate = 44100
	beepFrequency  = 440
	beepLength     = 100 * time.Millisecond
	beepAmplitude  = 0x1000
)

// beeper plays a short square wave each time Beep is called.
type beeper struct {
	ctx    *oto.Context
	tone   []byte
	player *oto.Player
}

func newBeeper() (*beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   beepSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &beeper{
		ctx:  ctx,
		tone: squareWave(beepSampleRate, beepFrequency, beepLength),
	}, nil
}

// squareWave renders a mono signed 16-bit little endian square wave.
func squareWave(sampleRate, frequency int, length time.Duration) []byte {
	samples := int(int64(sampleRate) * int64(length) / int64(time.Second))
	period := sampleRate / frequency
	buf := make([]byte, 2*samples)
	for i := 0; i < samples; i++ {
		v := int16(beepAmplitude)
		if i%period >= period/2 {
			v = -v
		}
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	return buf
}

// Beep starts the tone, cutting off one that is still playing.
func (b *beeper) Beep() {
	if b.player != nil {
		_ = b.player.Close()
	}
	b.player = b.ctx.NewPlayer(bytes.NewReader(b.tone))
	b.player.Play()
}

func (b *beeper) Close() {
	if b.player != nil {
		_ = b.player.Close()
		b.player = nil
	}
}
