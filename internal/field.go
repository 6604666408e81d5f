package internal

import (
	"fmt"
	"strings"
)

// Field is a contiguous bit range of an instruction word.
type Field struct {
	Name   string
	Width  uint
	Offset uint
}

func (f Field) Mask() uint32 {
	return uint32((uint64(1)<<f.Width)-1) << f.Offset
}

// Extract masks word to the field and shifts it down to bit 0.
func (f Field) Extract(word uint32) uint32 {
	return (word & f.Mask()) >> f.Offset
}

var (
	FieldOpcode = Field{Name: "opcode", Width: 6, Offset: 26}
	FieldRs     = Field{Name: "rs", Width: 5, Offset: 21}
	FieldRt     = Field{Name: "rt", Width: 5, Offset: 16}
	FieldRd     = Field{Name: "rd", Width: 5, Offset: 11}
	FieldShamt  = Field{Name: "shamt", Width: 5, Offset: 6}
	FieldFunct  = Field{Name: "funct", Width: 6, Offset: 0}
	FieldImm    = Field{Name: "imm", Width: 16, Offset: 0}
	FieldAddr   = Field{Name: "addr", Width: 26, Offset: 0}
)

// Layout is one of the fixed partitions of a 32-bit word.
type Layout struct {
	Name   string
	Fields []Field
}

var (
	LayoutR = Layout{Name: "R", Fields: []Field{FieldOpcode, FieldRs, FieldRt, FieldRd, FieldShamt, FieldFunct}}
	LayoutI = Layout{Name: "I", Fields: []Field{FieldOpcode, FieldRs, FieldRt, FieldImm}}
	LayoutJ = Layout{Name: "J", Fields: []Field{FieldOpcode, FieldAddr}}
)

// LayoutOf returns the partition used by instructions of family.
func LayoutOf(family Family) Layout {
	switch family {
	case FamilyRegister:
		return LayoutR
	case FamilyJump:
		return LayoutJ
	}
	return LayoutI
}

// Format lists every field of word as name=value, e.g.
// "R opcode=0 rs=8 rt=9 rd=10 shamt=0 funct=32".
func (l Layout) Format(word uint32) string {
	var sb strings.Builder
	sb.WriteString(l.Name)
	for _, f := range l.Fields {
		fmt.Fprintf(&sb, " %s=%d", f.Name, f.Extract(word))
	}
	return sb.String()
}
