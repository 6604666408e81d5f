package internal

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encR(rs, rt, rd, shamt, funct uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func encI(opcode, rs, rt, imm uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | imm&0xffff
}

func encJ(opcode, addr uint32) uint32 {
	return opcode<<26 | addr&0x3ffffff
}

func TestDecodeRegister(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		want string
	}{
		{"add", encR(8, 9, 10, 0, 32), "add $t2,$t0,$t1"},
		{"add with zero", 0x01001020, "add $v0,$t0,$zero"},
		{"sll", encR(0, 9, 8, 4, 0), "sll $t0,$t1,4"},
		{"srl", encR(0, 9, 8, 31, 2), "srl $t0,$t1,31"},
		{"sra", encR(0, 9, 8, 1, 3), "sra $t0,$t1,1"},
		{"sllv", encR(4, 5, 6, 0, 4), "sllv $a2,$a0,$a1"},
		{"jr", encR(31, 0, 0, 0, 8), "jr $ra"},
		{"jalr", encR(25, 0, 31, 0, 9), "jalr $t9"},
		{"syscall", encR(0, 0, 0, 0, 12), "syscall"},
		{"break", encR(0, 0, 0, 0, 13), "break"},
		{"mfhi", encR(0, 0, 11, 0, 16), "mfhi $t3"},
		{"mthi", encR(0, 0, 11, 0, 17), "mthi $t3"},
		{"mflo", encR(0, 0, 12, 0, 18), "mflo $t4"},
		{"mtlo", encR(0, 0, 12, 0, 19), "mtlo $t4"},
		{"mult", encR(4, 5, 0, 0, 24), "mult $a0,$a1"},
		{"div", encR(16, 17, 0, 0, 26), "div $s0,$s1"},
		{"sub", encR(16, 17, 18, 0, 34), "sub $s2,$s0,$s1"},
		{"and", encR(2, 3, 4, 0, 36), "and $a0,$v0,$v1"},
		{"or", encR(2, 3, 4, 0, 37), "or $a0,$v0,$v1"},
		{"xor", encR(2, 3, 4, 0, 38), "xor $a0,$v0,$v1"},
		{"nor", encR(2, 3, 4, 0, 39), "nor $a0,$v0,$v1"},
		{"slt", encR(28, 29, 30, 0, 42), "slt $fp,$gp,$sp"},
	}

	for _, tc := range cases {
		t.Run("when "+tc.name, func(t *testing.T) {
			instr, err := Decode(tc.word, 0x00400000)
			require.NoError(t, err)
			assert.Equal(t, tc.want, instr.String())
			assert.Equal(t, FamilyRegister, instr.Family)
			assert.Equal(t, tc.want, Disassemble(tc.word, 0x00400000))
		})
	}
}

func TestDecodeAddOperands(t *testing.T) {
	instr, err := Decode(encR(8, 9, 10, 0, 32), 0)
	require.NoError(t, err)

	assert.Equal(t, "add", instr.Mnemonic)
	assert.Equal(t, []string{"$t2", "$t0", "$t1"}, instr.Operands())
	for _, arg := range instr.Args {
		assert.Equal(t, ArgReg, arg.Type)
	}
}

func TestDecodeRegImm(t *testing.T) {
	t.Run("when bltz", func(t *testing.T) {
		assert.Equal(t, "bltz $t0,0x10", Disassemble(encI(1, 8, 0, 0x10), 0x00400000))
	})

	t.Run("when bgez keeps the raw offset", func(t *testing.T) {
		assert.Equal(t, "bgez $s0,0xfffe", Disassemble(encI(1, 16, 1, 0xfffe), 0x00400000))
	})

	t.Run("when selector is unknown", func(t *testing.T) {
		for rt := uint32(2); rt < 32; rt++ {
			_, err := Decode(encI(1, 8, rt, 0x10), 0)
			assert.ErrorIs(t, err, ErrUnhandledBranchSelector)
			assert.Equal(t, ErrorText, Disassemble(encI(1, 8, rt, 0x10), 0))
		}
	})
}

func TestDecodeJump(t *testing.T) {
	assert.Equal(t, "j 0x400", Disassemble(encJ(2, 0x100), 0))
	assert.Equal(t, "jal 0x400000", Disassemble(encJ(3, 0x100000), 0))
	assert.Equal(t, "j 0xffffffc", Disassemble(encJ(2, 0x3ffffff), 0))
	assert.Equal(t, "j 0x0", Disassemble(encJ(2, 0), 0x00400000))
}

func TestDecodeLoadUpper(t *testing.T) {
	// the immediate follows the register without a comma
	assert.Equal(t, "lui $t00x1001", Disassemble(encI(15, 0, 8, 0x1001), 0))
	assert.Equal(t, "lui $at0xffff", Disassemble(encI(15, 0, 1, 0xffff), 0))
}

func TestDecodeMemory(t *testing.T) {
	t.Run("when offset has bit 15 set", func(t *testing.T) {
		text := Disassemble(encI(35, 29, 8, 0x8001), 0)
		assert.Equal(t, "lw $t0,0x8001($sp)", text)
		assert.Contains(t, text, "0x8001(")
		assert.NotContains(t, text, "-")
	})

	t.Run("when offset is small", func(t *testing.T) {
		assert.Equal(t, "lw $t0,1($sp)", Disassemble(encI(35, 29, 8, 0x0001), 0))
		assert.Equal(t, "sw $ra,28($sp)", Disassemble(encI(43, 29, 31, 28), 0))
		assert.Equal(t, "lb $a0,0($a1)", Disassemble(encI(32, 5, 4, 0), 0))
		assert.Equal(t, "sb $a0,32767($a1)", Disassemble(encI(40, 5, 4, 0x7fff), 0))
	})

	t.Run("when argument is memory", func(t *testing.T) {
		instr, err := Decode(encI(35, 29, 8, 0xfffc), 0)
		require.NoError(t, err)
		require.Len(t, instr.Args, 2)
		assert.Equal(t, ArgMem, instr.Args[1].Type)
		assert.Equal(t, "$sp", instr.Args[1].Reg)
		assert.Equal(t, int64(0xfffc), instr.Args[1].ValOfs)
		assert.True(t, instr.Args[1].IsHex)
	})
}

func TestDecodeBranch(t *testing.T) {
	t.Run("when beq", func(t *testing.T) {
		pc := uint32(0x00400010)
		want := "beq $t1,$t0," + NewCodeArgument(0x0002*4+4+int64(pc)).Str()
		assert.Equal(t, want, Disassemble(encI(4, 8, 9, 0x0002), pc))
		assert.Equal(t, "beq $t1,$t0,0x40001c", Disassemble(encI(4, 8, 9, 0x0002), pc))
	})

	t.Run("when offset is not sign extended", func(t *testing.T) {
		assert.Equal(t, int64(0x440000), BranchTarget(0xffff, 0x00400000))
		assert.Equal(t, "bne $zero,$t0,0x440000", Disassemble(encI(5, 8, 0, 0xffff), 0x00400000))
	})

	t.Run("when target passes 32 bits", func(t *testing.T) {
		assert.Equal(t, int64(0x10003fff4), BranchTarget(0xffff, 0xfffffff4))
		assert.Equal(t, "blez $zero,$t0,0x10003fff4", Disassemble(encI(6, 8, 0, 0xffff), 0xfffffff4))
	})

	t.Run("when bgtz", func(t *testing.T) {
		assert.Equal(t, "bgtz $zero,$a0,0x4", Disassemble(encI(7, 4, 0, 0), 0))
	})
}

func TestDecodeImmediate(t *testing.T) {
	assert.Equal(t, "addi $t0,$zero,0", Disassemble(0x20080000, 0x00400000))
	assert.Equal(t, "addi $t1,$zero,1", Disassemble(0x20090001, 0x00400004))
	assert.Equal(t, "addi $sp,$sp,-32", Disassemble(encI(8, 29, 29, 0xffe0), 0))
	assert.Equal(t, "slti $t0,$t1,5", Disassemble(encI(10, 9, 8, 5), 0))
	assert.Equal(t, "andi $t0,$t1,-1", Disassemble(encI(12, 9, 8, 0xffff), 0))
	assert.Equal(t, "ori $t0,$t1,32767", Disassemble(encI(13, 9, 8, 0x7fff), 0))
	assert.Equal(t, "xori $t0,$t1,-32768", Disassemble(encI(14, 9, 8, 0x8000), 0))
}

func TestDecodeUnknown(t *testing.T) {
	known := map[uint32]bool{}
	for op := uint32(0); op < 64; op++ {
		if _, _, ok := LookupOpcode(op); ok {
			known[op] = true
		}
	}
	assert.Len(t, known, 18)

	t.Run("when opcode is absent", func(t *testing.T) {
		for op := uint32(0); op < 64; op++ {
			if known[op] {
				continue
			}
			word := op<<26 | 0x00ffffff
			_, err := Decode(word, 0)
			assert.ErrorIs(t, err, ErrUnknownOpcode, "opcode %d", op)
			assert.Equal(t, ErrorText, Disassemble(word, 0))
		}
	})

	t.Run("when function code is absent", func(t *testing.T) {
		for funct := uint32(0); funct < 64; funct++ {
			if _, _, ok := LookupFunction(funct); ok {
				continue
			}
			_, err := Decode(encR(8, 9, 10, 0, funct), 0)
			assert.ErrorIs(t, err, ErrUnknownFunction, "funct %d", funct)
		}
	})

	t.Run("when error is inspected", func(t *testing.T) {
		_, err := Decode(0xfc000000, 0x00400000)
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
		assert.Equal(t, uint32(0xfc000000), decErr.Word)
		assert.Equal(t, uint32(0x00400000), decErr.PC)
		assert.Equal(t, "decode 0xfc000000 at 0x00400000: unknown opcode", err.Error())
	})
}

func TestDecodeTotal(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 20000; i++ {
		word, pc := rnd.Uint32(), rnd.Uint32()
		assert.NotPanics(t, func() {
			instr, err := Decode(word, pc)
			if err == nil {
				assert.NotEmpty(t, instr.String())
			} else {
				assert.Nil(t, instr)
			}
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	words := []uint32{0x20080000, 0x01001020, encI(4, 8, 9, 2), encI(15, 0, 8, 0x1001), 0xfc000000}
	for _, word := range words {
		first := Disassemble(word, 0x00400010)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Disassemble(word, 0x00400010))
		}
	}
}

func TestGetSyscallCode(t *testing.T) {
	instr, err := Decode(0x12345<<6|12, 0)
	require.NoError(t, err)
	code, ok := instr.GetSyscallCode()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x12345), code)

	instr, err = Decode(encR(8, 9, 10, 0, 32), 0)
	require.NoError(t, err)
	_, ok = instr.GetSyscallCode()
	assert.False(t, ok)
}
