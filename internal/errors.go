package internal

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode           = errors.New("unknown opcode")
	ErrUnknownFunction         = errors.New("unknown function code")
	ErrUnhandledBranchSelector = errors.New("unhandled branch selector")
)

// DecodeError reports a word the decoder has no rendering for.
type DecodeError struct {
	Word uint32
	PC   uint32
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode 0x%08x at 0x%08x: %v", e.Word, e.PC, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(word, pc uint32, err error) error {
	return &DecodeError{Word: word, PC: pc, Err: err}
}
