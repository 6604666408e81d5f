package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssign(t *testing.T) {
	s := ASTAssign{}
	s.Left = &ASTSymbolRef{
		ASTSymbol{
			Name: "a",
		},
	}

	a := ASTBinary{
		Op: "+",
	}

	a.Left = &ASTUnary{
		Op: "s32",
		Expr: &ASTSymbolRef{
			ASTSymbol{
				Name: "b",
			},
		},
	}

	a.Right = &ASTNumber{Value: 2}

	s.Right = &a

	assert.Equal(t, "a = s32(b) + 0x2", s.String())
	assert.Equal(t, TypeASTAssign, s.Type())
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "0x0", (&ASTNumber{}).String())
	assert.Equal(t, "-0x10", (&ASTNumber{Value: -16}).String())
	assert.Equal(t, "-16", (&ASTNumber{Value: -16, IsDec: true}).String())
}

func TestGotoAndCall(t *testing.T) {
	target := &ASTNumber{Value: 0x400018}

	g := &ASTGoto{Target: target}
	assert.Equal(t, "goto 0x400018", g.String())

	g.Cond = &ASTBinary{
		Op:    "==",
		Left:  &ASTSymbolRef{ASTSymbol{Name: "$t0"}},
		Right: &ASTNumber{},
	}
	assert.Equal(t, "if ($t0 == 0x0) goto 0x400018", g.String())

	c := &ASTCall{
		Expr: &ASTSymbolRef{ASTSymbol{Name: "syscall"}},
	}
	assert.Equal(t, "syscall()", c.String())
	assert.Equal(t, TypeASTCall, c.Type())

	c.Args = []ASTNode{&ASTSymbolRef{ASTSymbol{Name: "$v0"}}, &ASTNumber{Value: 1, IsDec: true}}
	assert.Equal(t, "syscall($v0, 1)", c.String())
}
