package internal

import (
	"fmt"

	"github.com/firodj/mipsdis/internal/codegen"
)

type PseudoPrint func(instr *Instruction) codegen.ASTNode

var mnemonicToPseudo = map[string]PseudoPrint{
	"add":  PseudoAssign,
	"addi": PseudoAssign,
	"sub":  PseudoAssign,
	"and":  PseudoAssign,
	"andi": PseudoAssign,
	"or":   PseudoAssign,
	"ori":  PseudoAssign,
	"xor":  PseudoAssign,
	"xori": PseudoAssign,
	"nor":  PseudoAssign,
	"slt":  PseudoAssign,
	"slti": PseudoAssign,
	"sll":  PseudoAssign,
	"srl":  PseudoAssign,
	"sra":  PseudoAssign,
	"sllv": PseudoAssign,
	"srlv": PseudoAssign,
	"srav": PseudoAssign,

	"lui": PseudoLoadUpper,
	"lw":  PseudoLoad,
	"lb":  PseudoLoad,
	"sw":  PseudoStore,
	"sb":  PseudoStore,

	"mfhi": PseudoMove,
	"mflo": PseudoMove,
	"mthi": PseudoMove,
	"mtlo": PseudoMove,
	"mult": PseudoMulDiv,
	"div":  PseudoMulDiv,

	"beq":  PseudoBranch,
	"bne":  PseudoBranch,
	"blez": PseudoBranch,
	"bgtz": PseudoBranch,
	"bltz": PseudoBranch,
	"bgez": PseudoBranch,

	"j":    PseudoJump,
	"jal":  PseudoJump,
	"jr":   PseudoJump,
	"jalr": PseudoJump,

	"syscall": PseudoSyscall,
	"break":   PseudoSyscall,
}

// Code renders instr as a C-like statement, or "" when there is none.
func Code(instr *Instruction) string {
	if instr == nil {
		return ""
	}
	if fn, ok := mnemonicToPseudo[instr.Mnemonic]; ok {
		if node := fn(instr); node != nil {
			return fmt.Sprintf("%s", node)
		}
	}
	return ""
}

func symbol(name string) *codegen.ASTSymbolRef {
	e := codegen.ASTSymbolRef{}
	e.Name = name
	return &e
}

func signed(arg *Argument) codegen.ASTNode {
	if arg.IsNumber() || arg.IsZero() {
		return arg.ToPseudo()
	}
	return &codegen.ASTUnary{Op: "s32", Expr: arg.ToPseudo()}
}

func assign(left, right codegen.ASTNode) *codegen.ASTAssign {
	s := &codegen.ASTAssign{}
	s.Left = left
	s.Right = right
	return s
}

func PseudoAssign(instr *Instruction) codegen.ASTNode {
	if len(instr.Args) != 3 {
		return nil
	}

	op := ""
	arg1, arg2 := instr.Args[1], instr.Args[2]
	signed1, signed2 := false, false

	switch instr.Mnemonic {
	case "add", "addi":
		op = "+"
	case "sub":
		op = "-"
	case "and", "andi":
		op = "&"
	case "or", "ori", "nor":
		op = "|"
	case "xor", "xori":
		op = "^"
	case "slt", "slti":
		op = "<"
		signed1, signed2 = true, true
	case "sll":
		op = "<<"
	case "srl":
		op = ">>"
	case "sra":
		op = ">>"
		signed1 = true
	// variable shifts take the amount from rs, rendered second
	case "sllv":
		op = "<<"
		arg1, arg2 = arg2, arg1
	case "srlv":
		op = ">>"
		arg1, arg2 = arg2, arg1
	case "srav":
		op = ">>"
		arg1, arg2 = arg2, arg1
		signed1 = true
	}

	var left, right codegen.ASTNode = arg1.ToPseudo(), arg2.ToPseudo()
	if signed1 {
		left = signed(arg1)
	}
	if signed2 {
		right = signed(arg2)
	}

	var expr codegen.ASTNode = &codegen.ASTBinary{Op: op, Left: left, Right: right}
	switch {
	case instr.Mnemonic == "nor":
		expr = &codegen.ASTUnary{Op: "~", Expr: expr}
	case op == "<" || op == "&":
	case arg2.IsZero():
		expr = left
	case arg1.IsZero() && (op == "+" || op == "|" || op == "^"):
		expr = right
	case op == "+" && arg2.IsNegative():
		expr = &codegen.ASTBinary{
			Op:    "-",
			Left:  left,
			Right: &codegen.ASTNumber{Value: -arg2.ValOfs, IsDec: !arg2.IsHex},
		}
	}

	return assign(instr.Args[0].ToPseudo(), expr)
}

func PseudoLoadUpper(instr *Instruction) codegen.ASTNode {
	return assign(instr.Args[0].ToPseudo(), &codegen.ASTNumber{Value: instr.Args[1].ValOfs << 16})
}

func memSize(mnemonic string) string {
	if mnemonic[1] == 'b' {
		return "u8"
	}
	return "u32"
}

func pointer(instr *Instruction) codegen.ASTNode {
	p := instr.Args[1].ToPseudo().(*codegen.ASTPointer)
	p.Sz = memSize(instr.Mnemonic)
	return p
}

func PseudoLoad(instr *Instruction) codegen.ASTNode {
	var value codegen.ASTNode = pointer(instr)
	if instr.Mnemonic == "lb" {
		value = &codegen.ASTUnary{Op: "s8", Expr: value}
	}
	return assign(instr.Args[0].ToPseudo(), value)
}

func PseudoStore(instr *Instruction) codegen.ASTNode {
	return assign(pointer(instr), instr.Args[0].ToPseudo())
}

func PseudoMove(instr *Instruction) codegen.ASTNode {
	special := symbol(instr.Mnemonic[2:])
	if instr.Mnemonic[1] == 'f' {
		return assign(instr.Args[0].ToPseudo(), special)
	}
	// mthi and mtlo read rs; the listing shows rd.
	return assign(special, NewRegArgument(FieldRs.Extract(instr.Encoded)).ToPseudo())
}

func PseudoMulDiv(instr *Instruction) codegen.ASTNode {
	left, right := signed(instr.Args[0]), signed(instr.Args[1])
	if instr.Mnemonic == "mult" {
		return assign(symbol("hilo"), &codegen.ASTBinary{Op: "*", Left: left, Right: right})
	}
	return assign(symbol("lo"), &codegen.ASTBinary{Op: "/", Left: left, Right: right})
}

func PseudoBranch(instr *Instruction) codegen.ASTNode {
	g := &codegen.ASTGoto{}
	zero := &codegen.ASTNumber{}

	switch instr.Mnemonic {
	case "beq", "bne":
		op := "=="
		if instr.Mnemonic == "bne" {
			op = "!="
		}
		g.Cond = &codegen.ASTBinary{Op: op, Left: instr.Args[0].ToPseudo(), Right: instr.Args[1].ToPseudo()}
		g.Target = instr.Args[2].ToPseudo()
	case "blez", "bgtz":
		op := "<="
		if instr.Mnemonic == "bgtz" {
			op = ">"
		}
		g.Cond = &codegen.ASTBinary{Op: op, Left: signed(instr.Args[1]), Right: zero}
		g.Target = instr.Args[2].ToPseudo()
	case "bltz", "bgez":
		op := "<"
		if instr.Mnemonic == "bgez" {
			op = ">="
		}
		g.Cond = &codegen.ASTBinary{Op: op, Left: signed(instr.Args[0]), Right: zero}
		target := BranchTarget(uint32(instr.Args[1].ValOfs), instr.Address)
		g.Target = &codegen.ASTNumber{Value: target}
	}
	return g
}

func PseudoJump(instr *Instruction) codegen.ASTNode {
	target := instr.Args[0].ToPseudo()
	switch instr.Mnemonic {
	case "jal", "jalr":
		return &codegen.ASTCall{Expr: target}
	case "jr":
		if instr.Args[0].Reg == "$ra" {
			return symbol("return")
		}
	}
	return &codegen.ASTGoto{Target: target}
}

func PseudoSyscall(instr *Instruction) codegen.ASTNode {
	code, _ := instr.GetSyscallCode()
	return &codegen.ASTCall{
		Expr: symbol(instr.Mnemonic),
		Args: []codegen.ASTNode{&codegen.ASTNumber{Value: int64(code)}},
	}
}
