// Package punch encodes text as IBM 026 punch card hole patterns.
package punch

// Row is a physical punch position within a card column. The 026 punches
// zone rows 12 and 11 above the digit rows 0-9.
type Row int

// Zone rows. Digit rows are their own value (Row(0) through Row(9)).
const (
	Row12 Row = 12
	Row11 Row = 11
)

// DisplayRows is the number of visual grid rows a card column occupies:
// two zone rows on top of ten digit rows.
const DisplayRows = 12

// DisplayRow converts a physical row to its visual grid index. Row 12 is
// drawn on top, row 11 below it, then the digit rows in order.
func (r Row) DisplayRow() int {
	switch r {
	case Row12:
		return 0
	case Row11:
		return 1
	default:
		return int(r) + 2
	}
}

var rowTable = buildRowTable()

func buildRowTable() map[rune][]Row {
	t := make(map[rune][]Row)
	for i := 0; i < 9; i++ {
		t[rune('A'+i)] = []Row{Row12, Row(i + 1)}
	}
	for i := 0; i < 9; i++ {
		t[rune('J'+i)] = []Row{Row11, Row(i + 1)}
	}
	for i := 0; i < 8; i++ {
		t[rune('S'+i)] = []Row{Row(0), Row(i + 2)}
	}
	for d := 0; d <= 9; d++ {
		t[rune('0'+d)] = []Row{Row(d)}
	}
	t['.'] = []Row{Row12, Row(3), Row(8)}
	t[','] = []Row{Row(0), Row(3), Row(8)}
	t['-'] = []Row{Row11}
	t['/'] = []Row{Row(0), Row(1)}
	t['&'] = []Row{Row12}
	return t
}

// RowsFor returns the punch rows for a character, zone row first. Space
// and any character outside the 026 set return nil: the column stays
// blank. Callers must not modify the returned slice.
func RowsFor(ch rune) []Row {
	return rowTable[ch]
}
