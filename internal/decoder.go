package internal

// Decode turns one instruction word at address pc into an Instruction.
// Every failure is returned as a *DecodeError; Decode never panics.
func Decode(word, pc uint32) (*Instruction, error) {
	opcode := FieldOpcode.Extract(word)
	mnemonic, family, ok := LookupOpcode(opcode)
	if !ok {
		return nil, decodeError(word, pc, ErrUnknownOpcode)
	}

	instr := &Instruction{
		Address:  pc,
		Encoded:  word,
		Mnemonic: mnemonic,
		Family:   family,
	}

	var err error
	switch family {
	case FamilyRegister:
		err = decodeRegister(instr)
	case FamilyRegImm:
		err = decodeRegImm(instr)
	case FamilyJump:
		decodeJump(instr)
	case FamilyLoadUpper:
		decodeLoadUpper(instr)
	case FamilyMemory:
		decodeMemory(instr)
	case FamilyBranch:
		decodeBranch(instr)
	default:
		decodeImmediate(instr)
	}
	if err != nil {
		return nil, decodeError(word, pc, err)
	}

	return instr, nil
}

// Disassemble returns the rendered instruction, or "error" when word
// cannot be decoded.
func Disassemble(word, pc uint32) string {
	instr, err := Decode(word, pc)
	if err != nil {
		return ErrorText
	}
	return instr.String()
}

const ErrorText = "error"

func decodeRegister(instr *Instruction) error {
	word := instr.Encoded
	mnemonic, form, ok := LookupFunction(FieldFunct.Extract(word))
	if !ok {
		return ErrUnknownFunction
	}
	instr.Mnemonic = mnemonic

	rs := NewRegArgument(FieldRs.Extract(word))
	rt := NewRegArgument(FieldRt.Extract(word))
	rd := NewRegArgument(FieldRd.Extract(word))

	switch form {
	case FormShift:
		shamt := NewDecArgument(int64(FieldShamt.Extract(word)))
		instr.Args = []*Argument{rd, rt, shamt}
	case FormJumpReg:
		instr.Args = []*Argument{rs}
	case FormNone:
		instr.Args = nil
	case FormHiLo:
		instr.Args = []*Argument{rd}
	case FormMulDiv:
		instr.Args = []*Argument{rs, rt}
	default:
		instr.Args = []*Argument{rd, rs, rt}
	}
	return nil
}

func decodeRegImm(instr *Instruction) error {
	word := instr.Encoded
	mnemonic, ok := LookupRegImm(FieldRt.Extract(word))
	if !ok {
		return ErrUnhandledBranchSelector
	}
	instr.Mnemonic = mnemonic

	// The offset is printed raw, not as a branch target.
	instr.Args = []*Argument{
		NewRegArgument(FieldRs.Extract(word)),
		NewHexArgument(int64(FieldImm.Extract(word))),
	}
	return nil
}

func decodeJump(instr *Instruction) {
	target := int64(FieldAddr.Extract(instr.Encoded)) << 2
	instr.Args = []*Argument{NewCodeArgument(target)}
}

func decodeLoadUpper(instr *Instruction) {
	word := instr.Encoded
	imm := NewHexArgument(int64(FieldImm.Extract(word)))
	imm.Glued = true
	instr.Args = []*Argument{
		NewRegArgument(FieldRt.Extract(word)),
		imm,
	}
}

func decodeMemory(instr *Instruction) {
	word := instr.Encoded
	imm := FieldImm.Extract(word)

	var ofs *Argument
	if imm >= 0x8000 {
		ofs = NewMemArgument(FieldRs.Extract(word), int64(imm), true)
	} else {
		ofs = NewMemArgument(FieldRs.Extract(word), int64(SignExtend16(uint16(imm))), false)
	}

	instr.Args = []*Argument{
		NewRegArgument(FieldRt.Extract(word)),
		ofs,
	}
}

// BranchTarget is imm*4 + 4 + pc with the raw, unextended offset. The sum
// is kept in 64 bits so it is never truncated.
func BranchTarget(imm, pc uint32) int64 {
	return int64(imm)*4 + 4 + int64(pc)
}

func decodeBranch(instr *Instruction) {
	word := instr.Encoded
	instr.Args = []*Argument{
		NewRegArgument(FieldRt.Extract(word)),
		NewRegArgument(FieldRs.Extract(word)),
		NewCodeArgument(BranchTarget(FieldImm.Extract(word), instr.Address)),
	}
}

func decodeImmediate(instr *Instruction) {
	word := instr.Encoded
	imm := SignExtend16(uint16(FieldImm.Extract(word)))
	instr.Args = []*Argument{
		NewRegArgument(FieldRt.Extract(word)),
		NewRegArgument(FieldRs.Extract(word)),
		NewDecArgument(int64(imm)),
	}
}
