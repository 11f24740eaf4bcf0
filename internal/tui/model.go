// Package tui provides the Bubble Tea punch board interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keypunch/internal/anim"
	"github.com/verte-zerg/keypunch/internal/audio"
	"github.com/verte-zerg/keypunch/internal/grid"
	"github.com/verte-zerg/keypunch/internal/message"
	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/punch"
	"github.com/verte-zerg/keypunch/internal/render"
	statsPkg "github.com/verte-zerg/keypunch/internal/stats"
	"github.com/verte-zerg/keypunch/internal/store"
)

const fetchTimeout = 30 * time.Second

type tickMsg time.Time

// messageMsg delivers the next board text fetched off the Update loop.
type messageMsg struct {
	text   string
	source string
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea board UI.
type Model struct {
	config model.Config
	store  *store.Store
	source message.Source
	player *audio.Player

	grid  *grid.Grid
	sched *anim.Scheduler

	width  int
	height int

	msg       punch.Message
	msgSource string
	printed   string
	typedAt   time.Time
	recorded  bool

	asleep   bool
	fetching bool
	errMsg   string

	composeMode  bool
	composeInput textinput.Model
}

// NewModel constructs a board model and queues the startup sweep.
func NewModel(cfg model.Config, st *store.Store, src message.Source, player *audio.Player) *Model {
	g := grid.NewCard()
	sched := anim.NewScheduler(g)
	if cfg.HoldSeconds > 0 && cfg.TickMs > 0 {
		sched.SetHold(cfg.HoldSeconds * 1000 / cfg.TickMs)
	}
	m := &Model{
		config: cfg,
		store:  st,
		source: src,
		player: player,
		grid:   g,
		sched:  sched,
	}
	m.initComposeInput()
	if err := m.sched.Request(m.newStartup(), false); err != nil {
		logErrf("failed to start sweep: %v\n", err)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick()
	case messageMsg:
		return m.handleMessage(msg)
	case tea.KeyMsg:
		if m.composeMode {
			return m.updateCompose(msg)
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	card := render.Card(m.grid, m.printed, render.Options{Color: true})
	title := titleStyle.Render("KEYPUNCH 026")
	content := lipgloss.JoinVertical(lipgloss.Center, title, "", card)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	ev := m.sched.Tick()
	var cmds []tea.Cmd
	// Only typing ticks report a column; sweeps touch whole diagonals.
	if ev.Column >= 0 {
		m.printed = textPrefix(m.msg.Text(), ev.Column+1)
		if m.config.Sound {
			m.player.Punch()
		}
	}
	switch ev.Finished {
	case anim.KindTyping:
		m.recordDisplay(true)
		if m.config.Sound {
			m.player.Chime()
		}
	case anim.KindStartup:
		cmds = append(cmds, m.fetchCmd())
	case anim.KindWake:
		m.asleep = false
		if m.msg.Len() > 0 {
			m.startTyping(m.msg, m.msgSource)
		} else {
			cmds = append(cmds, m.fetchCmd())
		}
	}
	if ev.Cleared {
		m.printed = ""
		cmds = append(cmds, m.fetchCmd())
	}
	cmds = append(cmds, m.tickCmd())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleMessage(msg messageMsg) (tea.Model, tea.Cmd) {
	m.fetching = false
	if msg.err != nil {
		logErrf("failed to fetch message: %v\n", msg.err)
		m.errMsg = msg.err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.startTyping(punch.Encode(msg.text), msg.source)
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC, msg.String() == "q":
		m.interruptActive()
		return m, tea.Quit
	case msg.String() == "n":
		m.interruptActive()
		m.sched.Stop()
		m.asleep = false
		return m, m.fetchCmd()
	case msg.String() == "i":
		return m.startCompose()
	case msg.String() == "s":
		m.toggleSleep()
		return m, nil
	case msg.String() == "r":
		m.interruptActive()
		m.printed = ""
		m.asleep = false
		if err := m.sched.Request(m.newStartup(), true); err != nil {
			logErrf("failed to start sweep: %v\n", err)
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) startCompose() (tea.Model, tea.Cmd) {
	m.composeMode = true
	m.composeInput.SetValue("")
	return m, m.composeInput.Focus()
}

func (m *Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.composeMode = false
		return m, nil
	case tea.KeyEnter:
		m.composeMode = false
		text := strings.TrimSpace(m.composeInput.Value())
		if text == "" {
			return m, nil
		}
		m.interruptActive()
		m.asleep = false
		m.startTyping(punch.Encode(text), "custom")
		return m, nil
	}
	var cmd tea.Cmd
	m.composeInput, cmd = m.composeInput.Update(msg)
	return m, cmd
}

func (m *Model) toggleSleep() {
	m.interruptActive()
	m.printed = ""
	var d anim.Driver
	if m.asleep {
		d = anim.NewFadeIn(m.grid.Rows(), m.grid.Cols(), m.fadeInterval())
		m.asleep = false
	} else {
		d = anim.NewFadeOut(m.grid.Rows(), m.grid.Cols(), m.fadeInterval())
		m.asleep = true
	}
	if err := m.sched.Request(d, true); err != nil {
		logErrf("failed to start fade: %v\n", err)
	}
}

// startTyping replaces whatever runs with a fresh typing pass.
func (m *Model) startTyping(msg punch.Message, source string) {
	m.msg = msg
	m.msgSource = source
	m.printed = ""
	m.typedAt = time.Now()
	m.recorded = false
	d := anim.NewTyping(msg, m.tickInterval())
	if err := m.sched.Request(d, true); err != nil {
		logErrf("failed to start typing: %v\n", err)
	}
}

// interruptActive records a typing pass cut short before its driver is
// replaced. Completed passes were already recorded on their final tick.
func (m *Model) interruptActive() {
	if m.sched.Active() == anim.KindTyping {
		m.recordDisplay(false)
	}
}

func (m *Model) recordDisplay(completed bool) {
	if m.store == nil || m.msg.Len() == 0 || m.recorded {
		return
	}
	m.recorded = true

	shown := m.msg
	text := m.msg.Text()
	if !completed {
		text = m.printed
		shown = punch.Encode(text)
	}
	disp := model.DisplayStats{
		ShownAt:    m.typedAt,
		Source:     m.msgSource,
		Text:       text,
		Columns:    shown.Len(),
		Holes:      shown.Holes(),
		DurationMs: time.Since(m.typedAt).Milliseconds(),
		Completed:  completed,
	}
	ctx := context.Background()
	if _, err := m.store.InsertDisplay(ctx, disp, statsPkg.CharCounts(shown)); err != nil {
		logErrf("failed to save display: %v\n", err)
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		text, err := src.Next(ctx)
		return messageMsg{text: text, source: src.Name(), err: err}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

// interval picks the cadence for the next tick: the active driver's own,
// or the typing cadence while holding or idle.
func (m *Model) interval() time.Duration {
	if iv := m.sched.Interval(); iv > 0 {
		return iv
	}
	return m.tickInterval()
}

func (m *Model) tickInterval() time.Duration {
	return time.Duration(m.config.TickMs) * time.Millisecond
}

func (m *Model) sweepInterval() time.Duration {
	return time.Duration(m.config.SweepMs) * time.Millisecond
}

func (m *Model) fadeInterval() time.Duration {
	return time.Duration(m.config.FadeMs) * time.Millisecond
}

func (m *Model) newStartup() *anim.Sweep {
	return anim.NewStartup(m.grid.Rows(), m.grid.Cols(), m.sweepInterval())
}

func (m *Model) initComposeInput() {
	input := textinput.New()
	input.Prompt = "Message: "
	input.CharLimit = 0
	input.Placeholder = "HELLO, WORLD."
	input.Cursor.SetMode(cursor.CursorBlink)
	m.composeInput = input
}

func (m *Model) renderFooter() string {
	if m.composeMode {
		return m.composeInput.View()
	}
	segments := []string{statusStyle.Render(m.statusText())}
	if m.errMsg != "" {
		segments = append(segments, errorStyle.Render(m.errMsg))
	}
	segments = append(segments, footerStyle.Render("n: next  i: compose  s: sleep  r: sweep  q: quit"))
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = render.TruncateWidth(footer, m.width)
	}
	return footer
}

// statusText names what the board is doing right now.
func (m *Model) statusText() string {
	var state string
	switch {
	case m.sched.Active() == anim.KindTyping:
		state = "punching"
	case m.sched.Active() == anim.KindStartup:
		state = "sweeping"
	case m.sched.Active() == anim.KindSleep || m.asleep:
		state = "sleeping"
	case m.sched.Active() == anim.KindWake:
		state = "waking"
	case m.fetching:
		state = "fetching"
	case m.sched.Busy():
		state = "holding"
	default:
		state = "idle"
	}
	sound := "off"
	if m.config.Sound {
		sound = "on"
	}
	return fmt.Sprintf("source %s · %s · sound %s", m.source.Name(), state, sound)
}

func textPrefix(text string, cols int) string {
	runes := []rune(text)
	if cols > len(runes) {
		cols = len(runes)
	}
	if cols < 0 {
		cols = 0
	}
	return string(runes[:cols])
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
