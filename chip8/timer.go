package chip8

// Tick counts both timers down by one. It is meant to be called at 60 Hz,
// independently of Step. The beeper fires when the sound timer runs out.
func (c8 *Chip8) Tick() {
	if c8.dt > 0 {
		c8.dt--
	}
	if c8.st > 0 {
		if c8.st == 1 && c8.beep != nil {
			c8.beep()
		}
		c8.st--
	}
}
