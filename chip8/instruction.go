package chip8

import "fmt"

// Op identifies one Chip-8 instruction.
type Op uint8

const (
	OpUnknown Op = iota
	OpSys        // 0nnn
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1nnn
	OpCall       // 2nnn
	OpSeByte     // 3xkk
	OpSneByte    // 4xkk
	OpSeReg      // 5xy0
	OpLdByte     // 6xkk
	OpAddByte    // 7xkk
	OpLdReg      // 8xy0
	OpOr         // 8xy1
	OpAnd        // 8xy2
	OpXor        // 8xy3
	OpAddReg     // 8xy4
	OpSub        // 8xy5
	OpShr        // 8xy6
	OpSubn       // 8xy7
	OpShl        // 8xyE
	OpSneReg     // 9xy0
	OpLdI        // Annn
	OpJpV0       // Bnnn
	OpRnd        // Cxkk
	OpDrw        // Dxyn
	OpSkp        // Ex9E
	OpSknp       // ExA1
	OpLdVxDT     // Fx07
	OpLdVxK      // Fx0A
	OpLdDTVx     // Fx15
	OpLdSTVx     // Fx18
	OpAddI       // Fx1E
	OpLdF        // Fx29
	OpLdB        // Fx33
	OpLdIVx      // Fx55
	OpLdVxI      // Fx65
)

var opNames = [...]string{
	OpUnknown: "???",
	OpSys:     "SYS",
	OpCls:     "CLS",
	OpRet:     "RET",
	OpJp:      "JP",
	OpCall:    "CALL",
	OpSeByte:  "SE",
	OpSneByte: "SNE",
	OpSeReg:   "SE",
	OpLdByte:  "LD",
	OpAddByte: "ADD",
	OpLdReg:   "LD",
	OpOr:      "OR",
	OpAnd:     "AND",
	OpXor:     "XOR",
	OpAddReg:  "ADD",
	OpSub:     "SUB",
	OpShr:     "SHR",
	OpSubn:    "SUBN",
	OpShl:     "SHL",
	OpSneReg:  "SNE",
	OpLdI:     "LD",
	OpJpV0:    "JP",
	OpRnd:     "RND",
	OpDrw:     "DRW",
	OpSkp:     "SKP",
	OpSknp:    "SKNP",
	OpLdVxDT:  "LD",
	OpLdVxK:   "LD",
	OpLdDTVx:  "LD",
	OpLdSTVx:  "LD",
	OpAddI:    "ADD",
	OpLdF:     "LD",
	OpLdB:     "LD",
	OpLdIVx:   "LD",
	OpLdVxI:   "LD",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction is a decoded instruction word. Only the fields used by Op are
// meaningful.
type Instruction struct {
	Op  Op
	Raw uint16
	X   uint8  // register index, second nibble
	Y   uint8  // register index, third nibble
	N   uint8  // lowest nibble
	KK  uint8  // lowest byte
	NNN uint16 // lowest 12 bits
}

// Decode splits an instruction word into its fields and identifies the
// instruction. Words that match no instruction decode to OpUnknown.
func Decode(raw uint16) Instruction {
	in := Instruction{
		Raw: raw,
		X:   uint8(raw>>8) & 0xf,
		Y:   uint8(raw>>4) & 0xf,
		N:   uint8(raw) & 0xf,
		KK:  uint8(raw),
		NNN: raw & 0xfff,
	}
	in.Op = decodeOp(raw>>12, in)
	return in
}

func decodeOp(group uint16, in Instruction) Op {
	switch group {
	case 0x0:
		switch in.NNN {
		case 0x0e0:
			return OpCls
		case 0x0ee:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeByte
	case 0x4:
		return OpSneByte
	case 0x5:
		if in.N == 0 {
			return OpSeReg
		}
	case 0x6:
		return OpLdByte
	case 0x7:
		return OpAddByte
	case 0x8:
		switch in.N {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xe:
			return OpShl
		}
	case 0x9:
		if in.N == 0 {
			return OpSneReg
		}
	case 0xa:
		return OpLdI
	case 0xb:
		return OpJpV0
	case 0xc:
		return OpRnd
	case 0xd:
		return OpDrw
	case 0xe:
		switch in.KK {
		case 0x9e:
			return OpSkp
		case 0xa1:
			return OpSknp
		}
	case 0xf:
		switch in.KK {
		case 0x07:
			return OpLdVxDT
		case 0x0a:
			return OpLdVxK
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1e:
			return OpAddI
		case 0x29:
			return OpLdF
		case 0x33:
			return OpLdB
		case 0x55:
			return OpLdIVx
		case 0x65:
			return OpLdVxI
		}
	}
	return OpUnknown
}

// Operands formats the instruction operands in Cowgod's notation.
func (in Instruction) Operands() string {
	switch in.Op {
	case OpSys, OpJp, OpCall:
		return fmt.Sprintf("$%03X", in.NNN)
	case OpSeByte, OpSneByte, OpLdByte, OpAddByte, OpRnd:
		return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case OpShr, OpShl, OpSkp, OpSknp:
		return fmt.Sprintf("V%X", in.X)
	case OpLdI:
		return fmt.Sprintf("I, $%03X", in.NNN)
	case OpJpV0:
		return fmt.Sprintf("V0, $%03X", in.NNN)
	case OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case OpLdVxDT:
		return fmt.Sprintf("V%X, DT", in.X)
	case OpLdVxK:
		return fmt.Sprintf("V%X, K", in.X)
	case OpLdDTVx:
		return fmt.Sprintf("DT, V%X", in.X)
	case OpLdSTVx:
		return fmt.Sprintf("ST, V%X", in.X)
	case OpAddI:
		return fmt.Sprintf("I, V%X", in.X)
	case OpLdF:
		return fmt.Sprintf("F, V%X", in.X)
	case OpLdB:
		return fmt.Sprintf("B, V%X", in.X)
	case OpLdIVx:
		return fmt.Sprintf("[I], V%X", in.X)
	case OpLdVxI:
		return fmt.Sprintf("V%X, [I]", in.X)
	}
	return ""
}

func (in Instruction) String() string {
	if ops := in.Operands(); ops != "" {
		return in.Op.String() + " " + ops
	}
	return in.Op.String()
}
