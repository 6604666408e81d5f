package internal

import (
	"strings"
	"sync"

	"github.com/firodj/mipsdis/binarysearchtree"
)

type Instruction struct {
	Address  uint32
	Encoded  uint32
	Mnemonic string
	Family   Family
	Args     []*Argument
}

func (instr *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(instr.Mnemonic)
	for i, arg := range instr.Args {
		if i == 0 {
			sb.WriteByte(' ')
		} else if !arg.Glued {
			sb.WriteByte(',')
		}
		sb.WriteString(arg.Str())
	}
	return sb.String()
}

func (instr *Instruction) Operands() []string {
	ops := make([]string, 0, len(instr.Args))
	for _, arg := range instr.Args {
		ops = append(ops, arg.Str())
	}
	return ops
}

// GetSyscallCode returns the 20-bit code field of syscall and break.
func (instr *Instruction) GetSyscallCode() (uint32, bool) {
	if instr.Mnemonic == "syscall" || instr.Mnemonic == "break" {
		return (instr.Encoded >> 6) & 0xFFFFF, true
	}
	return 0, false
}

// DecodeResult is the outcome of decoding one address, failed or not.
type DecodeResult struct {
	Entry Entry
	Instr *Instruction
	Err   error
}

func (res *DecodeResult) Text() string {
	if res.Err != nil || res.Instr == nil {
		return ErrorText
	}
	return res.Instr.String()
}

type InstructionManager struct {
	mu      sync.Mutex
	results binarysearchtree.Tree[uint32, *DecodeResult]
}

func NewInstructionManager() *InstructionManager {
	return &InstructionManager{}
}

// Create decodes entry and caches the result, returning nil if the
// address is already known.
func (mgr *InstructionManager) Create(entry Entry) *DecodeResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if !mgr.results.Search(entry.Address).End() {
		return nil
	}
	res := decodeEntry(entry)
	mgr.results.Insert(entry.Address, res)
	return res
}

func (mgr *InstructionManager) Store(res *DecodeResult) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if mgr.results.Search(res.Entry.Address).End() {
		mgr.results.Insert(res.Entry.Address, res)
	}
}

func (mgr *InstructionManager) Get(addr uint32) *DecodeResult {
	it := mgr.results.Search(addr)
	if it.End() {
		return nil
	}
	return it.Value()
}

func (mgr *InstructionManager) Len() int {
	return mgr.results.Size()
}

func decodeEntry(entry Entry) *DecodeResult {
	instr, err := Decode(entry.Encoded, entry.Address)
	return &DecodeResult{
		Entry: entry,
		Instr: instr,
		Err:   err,
	}
}
