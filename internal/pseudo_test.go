package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		pc   uint32
		want string
	}{
		{"lw", encI(35, 29, 8, 4), 0, "$t0 = *(u32*)&mem[$sp + 4]"},
		{"lw large offset", encI(35, 29, 8, 0x7ff0), 0, "$t0 = *(u32*)&mem[$sp + 32752]"},
		{"sw without offset", encI(43, 29, 8, 0), 0, "*(u32*)&mem[$sp] = $t0"},
		{"lb high offset", encI(32, 29, 8, 0x8001), 0, "$t0 = s8(*(u8*)&mem[$sp + 0x8001])"},
		{"sb", encI(40, 5, 4, 1), 0, "*(u8*)&mem[$a1 + 1] = $a0"},
		{"beq", encI(4, 8, 9, 2), 0x00400010, "if ($t1 == $t0) goto 0x40001c"},
		{"bne", encI(5, 8, 9, 2), 0x00400010, "if ($t1 != $t0) goto 0x40001c"},
		{"blez", encI(6, 8, 0, 0), 0, "if (s32($t0) <= 0x0) goto 0x4"},
		{"bltz", encI(1, 8, 0, 0x10), 0x00400000, "if (s32($t0) < 0x0) goto 0x400044"},
		{"bgez", encI(1, 8, 1, 0x10), 0x00400000, "if (s32($t0) >= 0x0) goto 0x400044"},
		{"jr ra", encR(31, 0, 0, 0, 8), 0, "return"},
		{"jr", encR(25, 0, 0, 0, 8), 0, "goto $t9"},
		{"jalr", encR(25, 0, 31, 0, 9), 0, "$t9()"},
		{"j", encJ(2, 0x100), 0, "goto 0x400"},
		{"jal", encJ(3, 0x100000), 0, "0x400000()"},
		{"lui", encI(15, 0, 8, 0x1001), 0, "$t0 = 0x10010000"},
		{"slti", encI(10, 9, 8, 5), 0, "$t0 = s32($t1) < 5"},
		{"addi from zero", 0x20090001, 0, "$t1 = 1"},
		{"addi to self", encI(8, 29, 29, 0xffe0), 0, "$sp = $sp - 32"},
		{"add zero", 0x01001020, 0, "$v0 = $t0"},
		{"addi negative from zero", encI(8, 0, 8, 0xfffe), 0, "$t0 = -2"},
		{"andi zero", encI(12, 9, 8, 0), 0, "$t0 = $t1 & 0"},
		{"or from zero", encR(0, 9, 10, 0, 37), 0, "$t2 = $t1"},
		{"slt with zero", encR(0, 9, 10, 0, 42), 0, "$t2 = 0x0 < s32($t1)"},
		{"sub", encR(16, 17, 18, 0, 34), 0, "$s2 = $s0 - $s1"},
		{"sra", encR(0, 9, 8, 1, 3), 0, "$t0 = s32($t1) >> 1"},
		{"sllv", encR(4, 5, 6, 0, 4), 0, "$a2 = $a1 << $a0"},
		{"nor", encR(8, 9, 10, 0, 39), 0, "$t2 = ~($t0 | $t1)"},
		{"mfhi", encR(0, 0, 11, 0, 16), 0, "$t3 = hi"},
		{"mtlo reads rs", encR(13, 0, 12, 0, 19), 0, "lo = $t5"},
		{"mthi reads rs", encR(8, 0, 0, 0, 17), 0, "hi = $t0"},
		{"mthi from zero", encR(0, 0, 12, 0, 17), 0, "hi = 0x0"},
		{"mult", encR(4, 5, 0, 0, 24), 0, "hilo = s32($a0) * s32($a1)"},
		{"div", encR(16, 17, 0, 0, 26), 0, "lo = s32($s0) / s32($s1)"},
		{"syscall", encR(0, 0, 0, 0, 12), 0, "syscall(0x0)"},
		{"break with code", 7<<6 | 13, 0, "break(0x7)"},
	}

	for _, tc := range cases {
		t.Run("when "+tc.name, func(t *testing.T) {
			instr, err := Decode(tc.word, tc.pc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Code(instr))
		})
	}

	assert.Equal(t, "", Code(nil))
}
