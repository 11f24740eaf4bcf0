// Package main provides the CLI entrypoint for keypunch.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keypunch/internal/anim"
	"github.com/verte-zerg/keypunch/internal/audio"
	"github.com/verte-zerg/keypunch/internal/config"
	"github.com/verte-zerg/keypunch/internal/grid"
	"github.com/verte-zerg/keypunch/internal/message"
	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/punch"
	"github.com/verte-zerg/keypunch/internal/render"
	"github.com/verte-zerg/keypunch/internal/stats"
	"github.com/verte-zerg/keypunch/internal/statsui"
	"github.com/verte-zerg/keypunch/internal/store"
	"github.com/verte-zerg/keypunch/internal/tui"
)

const (
	defaultTickMs      = 85
	defaultSweepMs     = 18
	defaultFadeMs      = 60
	defaultHoldSeconds = 8
	defaultSound       = true
	defaultSource      = "builtin"

	defaultChartWindow = 10
)

var (
	boardTickMs      int
	boardSweepMs     int
	boardFadeMs      int
	boardHoldSeconds int
	boardSound       bool
	boardSource      string
	boardMessageFile string
	boardDBPath      string
	boardConfigPath  string

	statsSource      string
	statsSince       string
	statsLast        int
	statsChartWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keypunch",
		Short:         "IBM 026 punch card message board",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBoardCmd,
	}

	rootCmd.Flags().IntVar(&boardTickMs, "tick-ms", defaultTickMs, "delay between typed columns (ms)")
	rootCmd.Flags().IntVar(&boardSweepMs, "sweep-ms", defaultSweepMs, "delay between sweep steps (ms)")
	rootCmd.Flags().IntVar(&boardFadeMs, "fade-ms", defaultFadeMs, "delay between fade steps (ms)")
	rootCmd.Flags().IntVar(&boardHoldSeconds, "hold-seconds", defaultHoldSeconds, "seconds a finished message stays up")
	rootCmd.Flags().BoolVar(&boardSound, "sound", defaultSound, "punch clicks and completion chime")
	rootCmd.Flags().StringVar(&boardSource, "source", defaultSource, "message source (builtin|openai|file)")
	rootCmd.Flags().StringVar(&boardMessageFile, "message-file", "", "message file for --source file (one per line)")
	rootCmd.Flags().StringVar(&boardDBPath, "db", "", "stats database path")
	rootCmd.Flags().StringVar(&boardConfigPath, "config", "", "config file path")

	rootCmd.AddCommand(newPunchCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runBoardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveBoardConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}

	var player *audio.Player
	if cfg.Sound {
		player, err = audio.New()
		if err != nil {
			logErrf("audio unavailable, running silent: %v\n", err)
			player = nil
		}
	}
	defer player.Close()

	board := tui.NewModel(cfg, st, src, player)
	program := tea.NewProgram(board, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveBoardConfig merges compiled defaults, the TOML file, and flags;
// flags win over the file, the file wins over defaults.
func resolveBoardConfig(cmd *cobra.Command) (model.Config, error) {
	path := boardConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "tick-ms", &boardTickMs, fileCfg.Board.TickMs)
	applyIntConfig(cmd, "sweep-ms", &boardSweepMs, fileCfg.Board.SweepMs)
	applyIntConfig(cmd, "fade-ms", &boardFadeMs, fileCfg.Board.FadeMs)
	applyIntConfig(cmd, "hold-seconds", &boardHoldSeconds, fileCfg.Board.HoldSeconds)
	applyBoolConfig(cmd, "sound", &boardSound, fileCfg.Board.Sound)
	applyStringConfig(cmd, "source", &boardSource, fileCfg.Message.Source)
	applyStringConfig(cmd, "message-file", &boardMessageFile, fileCfg.Message.File)

	dbPath := boardDBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	cfg := model.Config{
		TickMs:      boardTickMs,
		SweepMs:     boardSweepMs,
		FadeMs:      boardFadeMs,
		HoldSeconds: boardHoldSeconds,
		Sound:       boardSound,
		Source:      strings.ToLower(strings.TrimSpace(boardSource)),
		MessageFile: boardMessageFile,
		DBPath:      dbPath,
		OpenAI:      resolveOpenAIConfig(fileCfg.OpenAI),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func resolveOpenAIConfig(fileCfg config.OpenAIConfig) model.OpenAIConfig {
	out := model.OpenAIConfig{APIKeyEnv: "OPENAI_API_KEY"}
	if fileCfg.BaseURL != nil {
		out.BaseURL = *fileCfg.BaseURL
	}
	if fileCfg.Model != nil {
		out.Model = *fileCfg.Model
	}
	if fileCfg.APIKeyEnv != nil && *fileCfg.APIKeyEnv != "" {
		out.APIKeyEnv = *fileCfg.APIKeyEnv
	}
	if fileCfg.Prompt != nil {
		out.Prompt = *fileCfg.Prompt
	}
	return out
}

func validateConfig(cfg model.Config) error {
	if cfg.TickMs <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if cfg.SweepMs <= 0 {
		return fmt.Errorf("--sweep-ms must be > 0")
	}
	if cfg.FadeMs <= 0 {
		return fmt.Errorf("--fade-ms must be > 0")
	}
	if cfg.HoldSeconds < 0 {
		return fmt.Errorf("--hold-seconds must be >= 0")
	}
	switch cfg.Source {
	case "builtin", "openai", "file":
	default:
		return fmt.Errorf("--source must be builtin, openai, or file")
	}
	if cfg.Source == "file" && cfg.MessageFile == "" {
		return fmt.Errorf("--message-file is required for --source file")
	}
	return nil
}

func buildSource(cfg model.Config) (message.Source, error) {
	switch cfg.Source {
	case "openai":
		key := os.Getenv(cfg.OpenAI.APIKeyEnv)
		if key == "" {
			logErrf("no API key in $%s; falling back to builtin messages\n", cfg.OpenAI.APIKeyEnv)
			return message.NewBuiltin(), nil
		}
		return message.NewOpenAI(cfg.OpenAI, key), nil
	case "file":
		return message.NewFile(cfg.MessageFile)
	default:
		return message.NewBuiltin(), nil
	}
}

func newPunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "punch [text...]",
		Short: "Punch a message and print the card",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPunchCmd,
	}
}

func runPunchCmd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	msg := punch.Encode(text)
	if len([]rune(text)) > punch.MaxColumns {
		logErrf("message truncated to %d columns\n", punch.MaxColumns)
	}

	g := grid.New(punch.DisplayRows, msg.Len())
	d := anim.NewTyping(msg, 0)
	if err := d.Start(g); err != nil {
		return fmt.Errorf("failed to start typing: %w", err)
	}
	for {
		if _, done := d.Tick(g); done {
			break
		}
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	if color {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < render.CardWidth(msg.Len()) {
			logErrf("card needs %d columns, terminal has %d; output will wrap\n", render.CardWidth(msg.Len()), w)
		}
	}
	card := render.Card(g, msg.Text(), render.Options{Color: color})
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), card); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSource, "source", "", "source filter (builtin|openai|file|custom|static)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N messages")
	cmd.Flags().IntVar(&statsChartWindow, "chart-window", defaultChartWindow, "moving average window for the length chart")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a report to stdout instead of the browser")
	cmd.Flags().StringVar(&boardDBPath, "db", "", "stats database path")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Source:      statsSource,
		Since:       sinceTime,
		Last:        statsLast,
		ChartWindow: statsChartWindow,
	}

	dbPath := boardDBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlainStats(cmd, st, cfg)
	}

	browser := statsui.NewModel(st, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func runPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Displays); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderLengthChart(out, report.Displays, 60, 8, cfg.ChartWindow); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := stats.RenderCharTable(out, report.CharAggs); err != nil {
		return fmt.Errorf("failed to render char table: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().StringVar(&boardConfigPath, "config", "", "config file path")
	return cmd
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := boardConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keypunch configuration
# Uncomment a value to enable it. CLI flags override config values.

[board]
# tick-ms = %d          # Delay between typed columns (ms)
# sweep-ms = %d         # Delay between sweep steps (ms)
# fade-ms = %d          # Delay between fade steps (ms)
# hold-seconds = %d     # Seconds a finished message stays up
# sound = %t           # Punch clicks and completion chime

[message]
# source = %q     # builtin | openai | file
# file = ""             # Message file for source = "file" (one per line)

[openai]
# base-url = "https://api.openai.com/v1"
# model = "gpt-4o-mini"
# api-key-env = "OPENAI_API_KEY"
# prompt = ""           # Override the built-in prompt
`,
		defaultTickMs,
		defaultSweepMs,
		defaultFadeMs,
		defaultHoldSeconds,
		defaultSound,
		defaultSource,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
