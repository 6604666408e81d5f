package internal

type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyRegister
	FamilyRegImm
	FamilyJump
	FamilyLoadUpper
	FamilyMemory
	FamilyBranch
	FamilyImmediate
)

var familyNames = [...]string{
	FamilyUnknown:   "unknown",
	FamilyRegister:  "register",
	FamilyRegImm:    "regimm",
	FamilyJump:      "jump",
	FamilyLoadUpper: "loadupper",
	FamilyMemory:    "memory",
	FamilyBranch:    "branch",
	FamilyImmediate: "immediate",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return familyNames[FamilyUnknown]
}

// Form selects the operand rendering of a register-register instruction.
type Form uint8

const (
	FormArith Form = iota
	FormShift
	FormJumpReg
	FormNone
	FormHiLo
	FormMulDiv
)

type opcodeEntry struct {
	Mnemonic string
	Family   Family
}

type functionEntry struct {
	Mnemonic string
	Form     Form
}

// Opcodes 0 and 1 select a family; the real mnemonic comes from the
// function code or the rt selector.
var opcodeTable = [64]opcodeEntry{
	0:  {"rtype", FamilyRegister},
	1:  {"regimm", FamilyRegImm},
	2:  {"j", FamilyJump},
	3:  {"jal", FamilyJump},
	4:  {"beq", FamilyBranch},
	5:  {"bne", FamilyBranch},
	6:  {"blez", FamilyBranch},
	7:  {"bgtz", FamilyBranch},
	8:  {"addi", FamilyImmediate},
	10: {"slti", FamilyImmediate},
	12: {"andi", FamilyImmediate},
	13: {"ori", FamilyImmediate},
	14: {"xori", FamilyImmediate},
	15: {"lui", FamilyLoadUpper},
	32: {"lb", FamilyMemory},
	35: {"lw", FamilyMemory},
	40: {"sb", FamilyMemory},
	43: {"sw", FamilyMemory},
}

var functionTable = [64]functionEntry{
	0:  {"sll", FormShift},
	2:  {"srl", FormShift},
	3:  {"sra", FormShift},
	4:  {"sllv", FormArith},
	6:  {"srlv", FormArith},
	7:  {"srav", FormArith},
	8:  {"jr", FormJumpReg},
	9:  {"jalr", FormJumpReg},
	12: {"syscall", FormNone},
	13: {"break", FormNone},
	16: {"mfhi", FormHiLo},
	17: {"mthi", FormHiLo},
	18: {"mflo", FormHiLo},
	19: {"mtlo", FormHiLo},
	24: {"mult", FormMulDiv},
	26: {"div", FormMulDiv},
	32: {"add", FormArith},
	34: {"sub", FormArith},
	36: {"and", FormArith},
	37: {"or", FormArith},
	38: {"xor", FormArith},
	39: {"nor", FormArith},
	42: {"slt", FormArith},
}

// rt selects the mnemonic under opcode 1.
var regImmTable = [32]string{
	0: "bltz",
	1: "bgez",
}

var registerNames = [32]string{
	"$zero", "$at", "$v0", "$v1",
	"$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3",
	"$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3",
	"$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1",
	"$gp", "$sp", "$fp", "$ra",
}

// LookupOpcode returns the mnemonic and family of a primary opcode.
func LookupOpcode(opcode uint32) (mnemonic string, family Family, ok bool) {
	if opcode >= uint32(len(opcodeTable)) {
		return "", FamilyUnknown, false
	}
	e := opcodeTable[opcode]
	return e.Mnemonic, e.Family, e.Mnemonic != ""
}

// LookupFunction returns the mnemonic and operand form of a register-register
// function code.
func LookupFunction(funct uint32) (mnemonic string, form Form, ok bool) {
	if funct >= uint32(len(functionTable)) {
		return "", FormArith, false
	}
	e := functionTable[funct]
	return e.Mnemonic, e.Form, e.Mnemonic != ""
}

func LookupRegImm(rt uint32) (string, bool) {
	if rt >= uint32(len(regImmTable)) {
		return "", false
	}
	return regImmTable[rt], regImmTable[rt] != ""
}

// RegisterName is total over the 5-bit register index; higher bits are ignored.
func RegisterName(index uint32) string {
	return registerNames[index&0x1f]
}
