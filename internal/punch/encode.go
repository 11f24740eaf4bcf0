// Package punch encodes text as IBM 026 punch card hole patterns.
package punch

import "strings"

// MaxColumns is the number of columns on a card.
const MaxColumns = 80

// truncationMarker replaces the tail of a message longer than MaxColumns.
const truncationMarker = "..."

// Message is an encoded message: one display-row activation set per card
// column. Immutable once built.
type Message struct {
	text    string
	columns [][]int
}

// Encode converts text to its punch pattern. The input is uppercased and,
// when longer than MaxColumns runes, cut so that the marker-terminated
// result is exactly MaxColumns columns wide. Empty input yields a
// zero-length message, distinct from an all-blank one.
func Encode(text string) Message {
	runes := []rune(strings.ToUpper(text))
	if len(runes) > MaxColumns {
		runes = append(runes[:MaxColumns-len(truncationMarker)], []rune(truncationMarker)...)
	}
	columns := make([][]int, len(runes))
	for i, ch := range runes {
		rows := RowsFor(ch)
		if len(rows) == 0 {
			continue
		}
		col := make([]int, len(rows))
		for j, r := range rows {
			col[j] = r.DisplayRow()
		}
		columns[i] = col
	}
	return Message{text: string(runes), columns: columns}
}

// Len returns the number of columns.
func (m Message) Len() int { return len(m.columns) }

// Column returns the display rows punched in column i, nil for a blank
// column or an out-of-range index.
func (m Message) Column(i int) []int {
	if i < 0 || i >= len(m.columns) {
		return nil
	}
	return m.columns[i]
}

// Text returns the normalized (uppercased, truncated) message text. Rune
// i of the text corresponds to column i.
func (m Message) Text() string { return m.text }

// Holes returns the total number of punched positions across all columns.
func (m Message) Holes() int {
	n := 0
	for _, col := range m.columns {
		n += len(col)
	}
	return n
}
