package chip8

import (
	"testing"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  uint16
		op   Op
		text string
	}{
		{0x00e0, OpCls, "CLS"},
		{0x00ee, OpRet, "RET"},
		{0x0abc, OpSys, "SYS $ABC"},
		{0x1234, OpJp, "JP $234"},
		{0x2345, OpCall, "CALL $345"},
		{0x3a12, OpSeByte, "SE VA, $12"},
		{0x4b34, OpSneByte, "SNE VB, $34"},
		{0x5ab0, OpSeReg, "SE VA, VB"},
		{0x5ab1, OpUnknown, "???"},
		{0x6c56, OpLdByte, "LD VC, $56"},
		{0x7d78, OpAddByte, "ADD VD, $78"},
		{0x8120, OpLdReg, "LD V1, V2"},
		{0x8121, OpOr, "OR V1, V2"},
		{0x8122, OpAnd, "AND V1, V2"},
		{0x8123, OpXor, "XOR V1, V2"},
		{0x8124, OpAddReg, "ADD V1, V2"},
		{0x8125, OpSub, "SUB V1, V2"},
		{0x8126, OpShr, "SHR V1"},
		{0x8127, OpSubn, "SUBN V1, V2"},
		{0x812e, OpShl, "SHL V1"},
		{0x8129, OpUnknown, "???"},
		{0x9ab0, OpSneReg, "SNE VA, VB"},
		{0xa123, OpLdI, "LD I, $123"},
		{0xb456, OpJpV0, "JP V0, $456"},
		{0xc7ff, OpRnd, "RND V7, $FF"},
		{0xd125, OpDrw, "DRW V1, V2, $5"},
		{0xe39e, OpSkp, "SKP V3"},
		{0xe3a1, OpSknp, "SKNP V3"},
		{0xe3a2, OpUnknown, "???"},
		{0xf407, OpLdVxDT, "LD V4, DT"},
		{0xf40a, OpLdVxK, "LD V4, K"},
		{0xf415, OpLdDTVx, "LD DT, V4"},
		{0xf418, OpLdSTVx, "LD ST, V4"},
		{0xf41e, OpAddI, "ADD I, V4"},
		{0xf429, OpLdF, "LD F, V4"},
		{0xf433, OpLdB, "LD B, V4"},
		{0xf455, OpLdIVx, "LD [I], V4"},
		{0xf465, OpLdVxI, "LD V4, [I]"},
		{0xf466, OpUnknown, "???"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := Decode(tt.raw)
			assert.Equal(t, tt.op, in.Op)
			assert.Equal(t, tt.raw, in.Raw)
			assert.Equal(t, tt.text, in.String())
		})
	}
}

func TestDecodeFields(t *testing.T) {
	in := Decode(0xd9a7)
	assert.Equal(t, OpDrw, in.Op)
	assert.Equal(t, uint8(0x9), in.X)
	assert.Equal(t, uint8(0xa), in.Y)
	assert.Equal(t, uint8(0x7), in.N)
	assert.Equal(t, uint8(0xa7), in.KK)
	assert.Equal(t, uint16(0x9a7), in.NNN)
}

func TestMnemonic(t *testing.T) {
	tests := []struct {
		raw         uint16
		instruction *chip8cpu.Instruction
	}{
		{0x00e0, chip8cpu.ClsInst},
		{0x00ee, chip8cpu.RetInst},
		{0x1234, chip8cpu.JpInst},
		{0x2345, chip8cpu.CallInst},
		{0x3a12, chip8cpu.SeInst},
		{0x4a12, chip8cpu.SneInst},
		{0x6a12, chip8cpu.LdInst},
		{0x7a12, chip8cpu.AddInst},
		{0x8121, chip8cpu.OrInst},
		{0x8122, chip8cpu.AndInst},
		{0x8123, chip8cpu.XorInst},
		{0x8125, chip8cpu.SubInst},
		{0x8126, chip8cpu.ShrInst},
		{0x8127, chip8cpu.SubnInst},
		{0x812e, chip8cpu.ShlInst},
		{0xa123, chip8cpu.LdInst},
		{0xc1ff, chip8cpu.RndInst},
		{0xd125, chip8cpu.DrwInst},
		{0xe19e, chip8cpu.SkpInst},
		{0xe1a1, chip8cpu.SknpInst},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.instruction.Name, Mnemonic(tt.raw))
	}
}

func TestDisassemble(t *testing.T) {
	assert.Equal(t, chip8cpu.DrwInst.Name+" V1, V2, $5", Disassemble(0xd125))
	assert.Equal(t, chip8cpu.ClsInst.Name, Disassemble(0x00e0))
	assert.Equal(t, "dw $F1FF", Disassemble(0xf1ff))
}
