// Package message supplies the text the board displays.
package message

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/keypunch/internal/punch"
)

// File rotates through messages loaded from a text file, one per line.
type File struct {
	rotation *Builtin
}

// NewFile reads path and keeps the lines that would actually punch
// something. Blank lines are skipped.
func NewFile(path string) (*File, error) {
	lines, err := loadLines(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load message file: %w", err)
	}
	kept := lines[:0]
	for _, line := range lines {
		if punchable(line) {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("message file %s has no punchable lines", path)
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &File{rotation: newBuiltin(rnd, kept)}, nil
}

// Name identifies the source.
func (f *File) Name() string { return "file" }

// Next picks a random line distinct from the previous one.
func (f *File) Next(ctx context.Context) (string, error) {
	return f.rotation.Next(ctx)
}

func loadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only message file.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("message file is empty")
	}
	return lines, nil
}

// punchable reports whether at least one rune of s maps to punch rows; a
// line of unsupported characters would render a blank card.
func punchable(s string) bool {
	for _, r := range strings.ToUpper(s) {
		if len(punch.RowsFor(r)) > 0 {
			return true
		}
	}
	return false
}
