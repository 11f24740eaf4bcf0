package punch

import "testing"

func TestRowsForFullCharacterSet(t *testing.T) {
	cases := []struct {
		ch   rune
		rows []Row
	}{
		{'A', []Row{12, 1}}, {'B', []Row{12, 2}}, {'C', []Row{12, 3}},
		{'D', []Row{12, 4}}, {'E', []Row{12, 5}}, {'F', []Row{12, 6}},
		{'G', []Row{12, 7}}, {'H', []Row{12, 8}}, {'I', []Row{12, 9}},
		{'J', []Row{11, 1}}, {'K', []Row{11, 2}}, {'L', []Row{11, 3}},
		{'M', []Row{11, 4}}, {'N', []Row{11, 5}}, {'O', []Row{11, 6}},
		{'P', []Row{11, 7}}, {'Q', []Row{11, 8}}, {'R', []Row{11, 9}},
		{'S', []Row{0, 2}}, {'T', []Row{0, 3}}, {'U', []Row{0, 4}},
		{'V', []Row{0, 5}}, {'W', []Row{0, 6}}, {'X', []Row{0, 7}},
		{'Y', []Row{0, 8}}, {'Z', []Row{0, 9}},
		{'0', []Row{0}}, {'1', []Row{1}}, {'2', []Row{2}}, {'3', []Row{3}},
		{'4', []Row{4}}, {'5', []Row{5}}, {'6', []Row{6}}, {'7', []Row{7}},
		{'8', []Row{8}}, {'9', []Row{9}},
		{'.', []Row{12, 3, 8}}, {',', []Row{0, 3, 8}}, {'-', []Row{11}},
		{'/', []Row{0, 1}}, {'&', []Row{12}},
		{' ', nil},
	}
	for _, tc := range cases {
		got := RowsFor(tc.ch)
		if len(got) != len(tc.rows) {
			t.Fatalf("RowsFor(%q) = %v, expected %v", tc.ch, got, tc.rows)
		}
		for i := range got {
			if got[i] != tc.rows[i] {
				t.Fatalf("RowsFor(%q) = %v, expected %v", tc.ch, got, tc.rows)
			}
		}
	}
}

func TestRowsForUnsupportedCharacters(t *testing.T) {
	for _, ch := range []rune{'a', '*', '#', '@', '!', '?', '\n', 'é', '習'} {
		if got := RowsFor(ch); len(got) != 0 {
			t.Fatalf("RowsFor(%q) = %v, expected empty set", ch, got)
		}
	}
}

func TestDisplayRowBijection(t *testing.T) {
	cases := []struct {
		row  Row
		want int
	}{
		{Row12, 0}, {Row11, 1},
		{0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6},
		{5, 7}, {6, 8}, {7, 9}, {8, 10}, {9, 11},
	}
	seen := make(map[int]bool)
	for _, tc := range cases {
		got := tc.row.DisplayRow()
		if got != tc.want {
			t.Fatalf("DisplayRow(%d) = %d, expected %d", tc.row, got, tc.want)
		}
		if seen[got] {
			t.Fatalf("display row %d mapped twice", got)
		}
		seen[got] = true
	}
	if len(seen) != DisplayRows {
		t.Fatalf("expected %d distinct display rows, got %d", DisplayRows, len(seen))
	}
}
