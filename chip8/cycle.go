package chip8

// Outcome describes the effect of one Step.
type Outcome struct {
	Redraw bool
}

func (c8 *Chip8) incPc(skipNextInstruction bool) {
	if skipNextInstruction {
		c8.pc += 4
	} else {
		c8.pc += 2
	}
}

// checkRange fails unless the n bytes starting at I are inside memory.
func (c8 *Chip8) checkRange(n int) error {
	if int(c8.i)+n > MemorySize {
		return ErrMemoryOutOfRange
	}
	return nil
}

// Step emulates one Chip-8 instruction. Comments describing opcodes are
// copied from Cowgod's reference [1].
//
// Errors are *Fault values. An unknown opcode is skipped before it is
// reported; every other fault leaves the machine as it was before the
// instruction.
func (c8 *Chip8) Step() (Outcome, error) {
	pc := c8.pc
	op, ok := c8.fetch(pc)
	if !ok {
		return Outcome{}, &Fault{Err: ErrMemoryOutOfRange, PC: pc}
	}
	in := Decode(op)
	redraw, err := c8.execute(in)
	if err != nil {
		return Outcome{}, &Fault{Err: err, Opcode: op, PC: pc}
	}
	if redraw {
		c8.draw = true
	}
	return Outcome{Redraw: redraw}, nil
}

func (c8 *Chip8) execute(in Instruction) (redraw bool, err error) {
	x, y := in.X, in.Y
	switch in.Op {
	case OpCls:
		// 00E0 - CLS -- Clear the display.
		c8.gfx = Frame{}
		c8.incPc(false)
		return true, nil
	case OpRet:
		// 00EE - RET -- Return from a subroutine.
		if c8.sp == 0 {
			return false, ErrStackUnderflow
		}
		c8.sp--
		c8.pc = c8.stack[c8.sp] + 2
	case OpJp:
		// 1nnn - JP addr -- Jump to location nnn.
		c8.pc = in.NNN
	case OpCall:
		// 2nnn - CALL addr -- Call subroutine at nnn.
		if int(c8.sp) >= StackSize {
			return false, ErrStackOverflow
		}
		c8.stack[c8.sp] = c8.pc
		c8.sp++
		c8.pc = in.NNN
	case OpSeByte:
		// 3xkk - SE Vx, byte -- Skip next instruction if Vx = kk.
		c8.incPc(c8.v[x] == in.KK)
	case OpSneByte:
		// 4xkk - SNE Vx, byte -- Skip next instruction if Vx != kk.
		c8.incPc(c8.v[x] != in.KK)
	case OpSeReg:
		// 5xy0 - SE Vx, Vy -- Skip next instruction if Vx = Vy.
		c8.incPc(c8.v[x] == c8.v[y])
	case OpLdByte:
		// 6xkk - LD Vx, byte -- Set Vx = kk.
		c8.v[x] = in.KK
		c8.incPc(false)
	case OpAddByte:
		// 7xkk - ADD Vx, byte -- Set Vx = Vx + kk.
		c8.v[x] += in.KK
		c8.incPc(false)
	case OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShr, OpSubn, OpShl:
		c8.alu(in.Op, x, y)
		c8.incPc(false)
	case OpSneReg:
		// 9xy0 - SNE Vx, Vy -- Skip next instruction if Vx != Vy.
		c8.incPc(c8.v[x] != c8.v[y])
	case OpLdI:
		// Annn - LD I, addr -- Set I = nnn.
		c8.i = in.NNN
		c8.incPc(false)
	case OpJpV0:
		// Bnnn - JP V0, addr -- Jump to location nnn + V0.
		c8.pc = in.NNN + uint16(c8.v[0])
	case OpRnd:
		// Cxkk - RND Vx, byte -- Set Vx = random byte AND kk.
		c8.v[x] = in.KK & c8.random()
		c8.incPc(false)
	case OpDrw:
		// Dxyn - DRW Vx, Vy, nibble -- Display n-byte sprite starting at memory
		// location I at (Vx, Vy), set VF = collision.
		if err := c8.checkRange(int(in.N)); err != nil {
			return false, err
		}
		c8.drawSprite(c8.v[x], c8.v[y], in.N)
		c8.incPc(false)
		return true, nil
	case OpSkp:
		// Ex9E - SKP Vx -- Skip next instruction if key with the value of Vx is
		// pressed.
		c8.incPc(c8.key[c8.v[x]&0xf])
	case OpSknp:
		// ExA1 - SKNP Vx -- Skip next instruction if key with the value of Vx is
		// not pressed.
		c8.incPc(!c8.key[c8.v[x]&0xf])
	case OpLdVxDT:
		// Fx07 - LD Vx, DT -- Set Vx = delay timer value.
		c8.v[x] = c8.dt
		c8.incPc(false)
	case OpLdVxK:
		// Fx0A - LD Vx, K -- Wait for a key press, store the value of the key in
		// Vx.
		c8.waitForKey(x)
	case OpLdDTVx:
		// Fx15 - LD DT, Vx -- Set delay timer = Vx.
		c8.dt = c8.v[x]
		c8.incPc(false)
	case OpLdSTVx:
		// Fx18 - LD ST, Vx -- Set sound timer = Vx.
		c8.st = c8.v[x]
		c8.incPc(false)
	case OpAddI:
		// Fx1E - ADD I, Vx -- Set I = I + Vx.
		// I is 16 bits wide; a sum past 0xFFFF would alias low memory.
		sum := int(c8.i) + int(c8.v[x])
		if sum > 0xffff {
			return false, ErrMemoryOutOfRange
		}
		c8.i = uint16(sum)
		c8.incPc(false)
	case OpLdF:
		// Fx29 - LD F, Vx -- Set I = location of sprite for digit Vx.
		c8.i = uint16(c8.v[x]) * glyphSize
		c8.incPc(false)
	case OpLdB:
		// Fx33 - LD B, Vx -- Store BCD representation of Vx in memory locations
		// I, I+1, and I+2.
		if err := c8.checkRange(3); err != nil {
			return false, err
		}
		c8.mem[c8.i] = c8.v[x] / 100
		c8.mem[c8.i+1] = (c8.v[x] % 100) / 10
		c8.mem[c8.i+2] = c8.v[x] % 10
		c8.incPc(false)
	case OpLdIVx:
		// Fx55 - LD [I], Vx -- Store registers V0 through Vx in memory starting
		// at location I.
		if err := c8.checkRange(int(x) + 1); err != nil {
			return false, err
		}
		copy(c8.mem[c8.i:], c8.v[:x+1])
		c8.incPc(false)
	case OpLdVxI:
		// Fx65 - LD Vx, [I] -- Read registers V0 through Vx from memory starting
		// at location I.
		if err := c8.checkRange(int(x) + 1); err != nil {
			return false, err
		}
		copy(c8.v[:x+1], c8.mem[c8.i:])
		c8.incPc(false)
	default:
		// 0nnn - SYS addr -- Jump to a machine code routine at nnn.
		// Ignored, like every other unknown word, so the program can go on.
		c8.incPc(false)
		return false, ErrUnknownOpcode
	}
	return false, nil
}

// alu executes the 8xyN register instructions.
func (c8 *Chip8) alu(op Op, x, y uint8) {
	vx, vy := c8.v[x], c8.v[y]
	switch op {
	case OpLdReg:
		// 8xy0 - LD Vx, Vy -- Set Vx = Vy.
		c8.v[x] = vy
	case OpOr:
		// 8xy1 - OR Vx, Vy -- Set Vx = Vx OR Vy.
		c8.v[x] = vx | vy
	case OpAnd:
		// 8xy2 - AND Vx, Vy -- Set Vx = Vx AND Vy.
		c8.v[x] = vx & vy
	case OpXor:
		// 8xy3 - XOR Vx, Vy -- Set Vx = Vx XOR Vy.
		c8.v[x] = vx ^ vy
	case OpAddReg:
		// 8xy4 - ADD Vx, Vy -- Set Vx = Vx + Vy, set VF = carry.
		c8.v[x] = vx + vy
		c8.v[0xf] = flag(uint16(vx)+uint16(vy) > 0xff)
	case OpSub:
		// 8xy5 - SUB Vx, Vy -- Set Vx = Vx - Vy, set VF = NOT borrow.
		c8.v[x] = vx - vy
		c8.v[0xf] = flag(vx >= vy)
	case OpShr:
		// 8xy6 - SHR Vx {, Vy} -- Set Vx = Vx SHR 1.
		c8.v[x] = vx >> 1
		c8.v[0xf] = vx & 0x1
	case OpSubn:
		// 8xy7 - SUBN Vx, Vy -- Set Vx = Vy - Vx, set VF = NOT borrow.
		c8.v[x] = vy - vx
		c8.v[0xf] = flag(vy >= vx)
	case OpShl:
		// 8xyE - SHL Vx {, Vy} -- Set Vx = Vx SHL 1.
		c8.v[x] = vx << 1
		c8.v[0xf] = vx >> 7
	}
}

// drawSprite XORs an n-row sprite from memory at I onto the display with its
// top left corner at (vx, vy). Coordinates wrap around the display edges.
func (c8 *Chip8) drawSprite(vx, vy, n uint8) {
	ox := int(vx) % DisplayWidth
	oy := int(vy) % DisplayHeight
	c8.v[0xf] = 0
	for row := 0; row < int(n); row++ {
		spriteRow := c8.mem[int(c8.i)+row]
		py := (oy + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if spriteRow&(0x80>>col) == 0 {
				continue
			}
			px := (ox + col) % DisplayWidth
			p := &c8.gfx[px+py*DisplayWidth]
			*p ^= 1
			if *p == 0 {
				c8.v[0xf] = 1
			}
		}
	}
}

// waitForKey runs one phase of Fx0A. The first call saves the keypad and
// leaves pc in place so the instruction runs again; later calls complete
// once a key differs from the saved state.
func (c8 *Chip8) waitForKey(x uint8) {
	if !c8.wait.active {
		c8.wait = keyWait{active: true, saved: c8.key}
		return
	}
	for k := range c8.key {
		if c8.key[k] != c8.wait.saved[k] {
			c8.v[x] = uint8(k)
			c8.wait = keyWait{}
			c8.incPc(false)
			return
		}
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
