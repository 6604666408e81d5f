package codegen

import (
	"fmt"
	"strings"
)

type NodeType string

const (
	TypeASTBinary    NodeType = "binary"
	TypeASTUnary     NodeType = "unary"
	TypeASTAssign    NodeType = "assign"
	TypeASTNumber    NodeType = "number"
	TypeASTSymbolRef NodeType = "symbol_ref"
	TypeASTPointer   NodeType = "pointer"
	TypeASTCall      NodeType = "call"
	TypeASTGoto      NodeType = "goto"
)

type ASTNode interface {
	Type() NodeType
}

//

type ASTBinary struct {
	Left  ASTNode
	Right ASTNode
	Op    string
}

func (a *ASTBinary) Type() NodeType {
	return TypeASTBinary
}

func (a *ASTBinary) String() string {
	return fmt.Sprintf("%s %s %s", a.Left, a.Op, a.Right)
}

//

type ASTUnary struct {
	Op   string
	Expr ASTNode
}

func (a *ASTUnary) Type() NodeType {
	return TypeASTUnary
}

func (a *ASTUnary) String() string {
	return fmt.Sprintf("%s(%s)", a.Op, a.Expr)
}

//

type ASTAssign struct {
	ASTBinary
}

func (a *ASTAssign) Type() NodeType {
	return TypeASTAssign
}

func (a *ASTAssign) String() string {
	return fmt.Sprintf("%s = %s", a.Left, a.Right)
}

//

type ASTNumber struct {
	Value int64
	IsDec bool
}

func (a *ASTNumber) Type() NodeType {
	return TypeASTNumber
}

func (a *ASTNumber) String() string {
	if a.IsDec {
		return fmt.Sprintf("%d", a.Value)
	}
	if a.Value < 0 {
		return fmt.Sprintf("-%#x", -a.Value)
	}
	return fmt.Sprintf("%#x", a.Value)
}

//

type ASTPointer struct {
	Sz   string
	Expr ASTNode
}

func (a *ASTPointer) Type() NodeType {
	return TypeASTPointer
}

func (a *ASTPointer) String() string {
	return fmt.Sprintf("*(%s*)&mem[%s]", a.Sz, a.Expr)
}

//

type ASTSymbol struct {
	Name string
}

type ASTSymbolRef struct {
	ASTSymbol
}

func (a *ASTSymbolRef) Type() NodeType {
	return TypeASTSymbolRef
}

func (a *ASTSymbolRef) String() string {
	return a.Name
}

//

type ASTCall struct {
	Expr ASTNode
	Args []ASTNode
}

func (a *ASTCall) Type() NodeType {
	return TypeASTCall
}

func (a *ASTCall) String() string {
	args := make([]string, len(a.Args))
	for i := range a.Args {
		args[i] = fmt.Sprintf("%s", a.Args[i])
	}
	return fmt.Sprintf("%s(%s)", a.Expr, strings.Join(args, ", "))
}

//

// ASTGoto is an unconditional jump when Cond is nil.
type ASTGoto struct {
	Cond   ASTNode
	Target ASTNode
}

func (a *ASTGoto) Type() NodeType {
	return TypeASTGoto
}

func (a *ASTGoto) String() string {
	if a.Cond == nil {
		return fmt.Sprintf("goto %s", a.Target)
	}
	return fmt.Sprintf("if (%s) goto %s", a.Cond, a.Target)
}
