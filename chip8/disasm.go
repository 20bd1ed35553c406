package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic looks up the assembler name of an instruction word in the
// retrogolib opcode table. It returns an empty string for words the table
// does not know.
func Mnemonic(raw uint16) string {
	for _, op := range chip8cpu.Opcodes[int(raw>>12)] {
		if op.Instruction != nil && op.Info.Mask&raw == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}

// Disassemble formats an instruction word for diagnostics, for example
// "drw V1, V2, $5".
func Disassemble(raw uint16) string {
	in := Decode(raw)
	name := Mnemonic(raw)
	if name == "" || in.Op == OpUnknown || in.Op == OpSys {
		return fmt.Sprintf("dw $%04X", raw)
	}
	if ops := in.Operands(); ops != "" {
		return name + " " + ops
	}
	return name
}
