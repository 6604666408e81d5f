package internal

import (
	"fmt"

	"github.com/firodj/mipsdis/internal/codegen"
)

type ArgType string

const (
	ArgNone ArgType = ""
	ArgImm  ArgType = "imm"
	ArgReg  ArgType = "reg"
	ArgMem  ArgType = "mem"
)

type Argument struct {
	Type           ArgType
	Reg            string
	ValOfs         int64
	IsHex          bool
	IsCodeLocation bool
	// Glued operands follow the previous one without a comma.
	Glued bool
}

func NewRegArgument(index uint32) *Argument {
	return &Argument{
		Type: ArgReg,
		Reg:  RegisterName(index),
	}
}

func NewHexArgument(value int64) *Argument {
	return &Argument{
		Type:   ArgImm,
		ValOfs: value,
		IsHex:  true,
	}
}

func NewDecArgument(value int64) *Argument {
	return &Argument{
		Type:   ArgImm,
		ValOfs: value,
	}
}

func NewCodeArgument(target int64) *Argument {
	arg := NewHexArgument(target)
	arg.IsCodeLocation = true
	return arg
}

func NewMemArgument(base uint32, ofs int64, isHex bool) *Argument {
	return &Argument{
		Type:   ArgMem,
		Reg:    RegisterName(base),
		ValOfs: ofs,
		IsHex:  isHex,
	}
}

func (arg *Argument) ValueStr() string {
	ss := ""
	n := arg.ValOfs

	if !arg.IsHex {
		return fmt.Sprintf("%d", n)
	}

	if n < 0 {
		ss += "-"
		n = -n
	}
	ss += fmt.Sprintf("0x%x", n)

	return ss
}

func (arg *Argument) Str() string {
	switch arg.Type {
	case ArgImm:
		return arg.ValueStr()
	case ArgReg:
		return arg.Reg
	case ArgMem:
		return arg.ValueStr() + "(" + arg.Reg + ")"
	}
	return "??"
}

func (arg *Argument) String() string {
	return arg.Str()
}

func (arg *Argument) IsNegative() bool {
	return arg.Type == ArgImm && arg.ValOfs < 0
}

func (arg *Argument) IsNumber() bool {
	return arg.Type == ArgImm
}

func (arg *Argument) IsZero() bool {
	return (arg.Type == ArgImm && arg.ValOfs == 0) || (arg.Type == ArgReg && arg.Reg == "$zero")
}

func (arg *Argument) number() *codegen.ASTNumber {
	return &codegen.ASTNumber{
		Value: arg.ValOfs,
		IsDec: !arg.IsHex,
	}
}

func (arg *Argument) ToPseudo() codegen.ASTNode {
	switch arg.Type {
	case ArgImm:
		return arg.number()
	case ArgReg:
		if arg.Reg == "$zero" {
			return &codegen.ASTNumber{}
		}
		e := codegen.ASTSymbolRef{}
		e.Name = arg.Reg
		return &e
	case ArgMem:
		b := codegen.ASTSymbolRef{}
		b.Name = arg.Reg
		e := codegen.ASTPointer{
			Sz:   "u32",
			Expr: &b,
		}
		if arg.ValOfs != 0 {
			e.Expr = &codegen.ASTBinary{
				Op:    "+",
				Left:  &b,
				Right: arg.number(),
			}
		}
		return &e
	}

	panic("unknown argument type")
}
