package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Run struct {
	bun.BaseModel `bun:"table:runs,alias:r"`

	ID        string `bun:",pk"`
	Source    string
	Count     int
	Failed    int
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
