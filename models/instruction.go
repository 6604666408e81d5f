package models

import "github.com/uptrace/bun"

// Instruction is one decoded line of a stored run.
type Instruction struct {
	bun.BaseModel `bun:"table:instructions,alias:i"`

	ID       int64  `bun:",pk,autoincrement"`
	RunID    string `bun:",notnull"`
	Line     int
	AddrText string
	Address  uint32
	Encoded  uint32
	Text     string
	Mnemonic string
	Failed   bool
}
