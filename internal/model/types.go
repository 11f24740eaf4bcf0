// Package model defines shared data structures.
package model

import "time"

// Config defines board runtime settings.
type Config struct {
	TickMs      int
	SweepMs     int
	FadeMs      int
	HoldSeconds int
	Sound       bool
	Source      string
	MessageFile string
	DBPath      string
	OpenAI      OpenAIConfig
}

// OpenAIConfig points the openai message source at a chat completions
// endpoint. APIKeyEnv names the environment variable holding the key.
type OpenAIConfig struct {
	BaseURL   string
	Model     string
	APIKeyEnv string
	Prompt    string
}

// StatsConfig defines filters and options for stats output. ChartWindow
// is the moving average window applied to the length chart; values below
// two plot the raw series.
type StatsConfig struct {
	Source      string
	Since       *time.Time
	Last        int
	ChartWindow int
}

// DisplayStats captures one message shown on the board.
type DisplayStats struct {
	ShownAt    time.Time
	Source     string
	Text       string
	Columns    int
	Holes      int
	DurationMs int64
	Completed  bool
}

// CharCount stores the per-character punch tally of one display.
type CharCount struct {
	Char  string
	Count int
	Holes int
}

// DisplayAggregate is a stored display read back for reporting.
type DisplayAggregate struct {
	DisplayID  int64
	ShownAt    time.Time
	Source     string
	Text       string
	Columns    int
	Holes      int
	DurationMs int64
	Completed  bool
}

// CharAggregate aggregates character counts across displays.
type CharAggregate struct {
	Char  string
	Count int64
	Holes int64
}
