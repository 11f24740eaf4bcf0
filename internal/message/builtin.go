package message

import (
	"context"
	"math/rand"
	"time"
)

// slate is the built-in message rotation. Every entry fits a card without
// truncation.
var slate = []string{
	"HELLO, WORLD.",
	"DO NOT FOLD, SPINDLE, OR MUTILATE.",
	"KEYPUNCH READY.",
	"12 ROWS, 80 COLUMNS, NO WAITING.",
	"PLEASE SUBMIT YOUR DECK TO THE OPERATOR.",
	"JOB 042 COMPLETE.",
	"END OF FILE.",
	"REWINDING TAPE 3...",
	"ALL CARDS ACCOUNTED FOR.",
	"THE 026 PRINTS AS IT PUNCHES.",
	"SORT BY COLUMN 80 AND TRY AGAIN.",
	"OFF BY ONE CARD.",
}

// Builtin rotates randomly through the built-in slate, never repeating
// the previous pick.
type Builtin struct {
	rnd  *rand.Rand
	msgs []string
	last int
}

// NewBuiltin returns a Builtin seeded with the current time.
func NewBuiltin() *Builtin {
	return newBuiltin(rand.New(rand.NewSource(time.Now().UnixNano())), slate)
}

func newBuiltin(rnd *rand.Rand, msgs []string) *Builtin {
	return &Builtin{rnd: rnd, msgs: msgs, last: -1}
}

// Name identifies the source.
func (b *Builtin) Name() string { return "builtin" }

// Next picks a random message distinct from the previous one.
func (b *Builtin) Next(context.Context) (string, error) {
	if len(b.msgs) == 1 {
		return b.msgs[0], nil
	}
	idx := b.rnd.Intn(len(b.msgs))
	for idx == b.last {
		idx = b.rnd.Intn(len(b.msgs))
	}
	b.last = idx
	return b.msgs[idx], nil
}
