// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keypunch/internal/model"
	"github.com/verte-zerg/keypunch/internal/stats"
	"github.com/verte-zerg/keypunch/internal/store"
)

const (
	tabOverview = iota
	tabCharacters
	tabMessages
)

const (
	chartHeight    = 8
	sparklineSpan  = 40
	msgTextColumns = 40
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model
	msgTable  table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Characters", "Messages"},
	}
	m.initInputs()
	m.initTables()
	m.overview = viewport.New(0, 0)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverviewContent()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		m.syncTableFocus()
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "g", "home":
			switch m.activeTab {
			case tabCharacters:
				m.charTable.GotoTop()
			case tabMessages:
				m.msgTable.GotoTop()
			default:
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			switch m.activeTab {
			case tabCharacters:
				m.charTable.GotoBottom()
			case tabMessages:
				m.msgTable.GotoBottom()
			default:
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			switch m.activeTab {
			case tabCharacters:
				m.charTable, cmd = m.charTable.Update(msg)
			case tabMessages:
				m.msgTable, cmd = m.msgTable.Update(msg)
			default:
				m.overview, cmd = m.overview.Update(msg)
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Source: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Chart window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initTables() {
	m.charTable = newStatsTable(charColumns())
	m.msgTable = newStatsTable(msgColumns())
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newStatsTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(nil),
		table.WithHeight(1),
	)
	t.SetStyles(statsTableStyles())
	return t
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Source))
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[2].SetValue("")
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.ChartWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	sizeTable(&m.charTable, m.width, bodyHeight)
	sizeTable(&m.msgTable, m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) syncTableFocus() {
	if m.activeTab == tabCharacters {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
	if m.activeTab == tabMessages {
		m.msgTable.Focus()
	} else {
		m.msgTable.Blur()
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.syncTableFocus()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	source := m.cfg.Source
	if source == "" {
		source = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: source=%s  since=%s  last=%s  window=%d", source, since, last, m.cfg.ChartWindow)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Filters: /  Quit: q")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	switch m.activeTab {
	case tabCharacters:
		switch {
		case len(m.report.Displays) == 0:
			return fitLines("No messages recorded.", m.width, height)
		case len(m.report.CharAggs) == 0:
			return fitLines("No character stats found.", m.width, height)
		default:
			view := tableMutedStyle.Render(m.charTable.View())
			return fitLines(view, m.width, height)
		}
	case tabMessages:
		if len(m.report.Displays) == 0 {
			return fitLines("No messages recorded.", m.width, height)
		}
		view := tableMutedStyle.Render(m.msgTable.View())
		return fitLines(view, m.width, height)
	default:
		return fitLines(m.overview.View(), m.width, height)
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.charTable.SetRows(charRows(report.CharAggs))
	m.msgTable.SetRows(msgRows(report.Displays))
	m.renderOverviewContent()
}

func (m *Model) renderOverviewContent() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Displays, m.cfg.ChartWindow, width))
}

func renderOverview(displays []model.DisplayAggregate, window, width int) string {
	if len(displays) == 0 {
		return "No messages recorded."
	}
	summary := renderSummaryCards(displays, width)
	chart := renderLengthChart(displays, window, width)
	spark := renderSparkline(displays)
	return strings.TrimRight(summary+"\n\n"+chart+"\n"+spark, "\n")
}

func renderSummaryCards(displays []model.DisplayAggregate, width int) string {
	t := stats.Summarize(displays)
	completed := fmt.Sprintf("%d", t.Completed)
	if t.Displays > 0 {
		completed = fmt.Sprintf("%d (%.0f%%)", t.Completed, float64(t.Completed)/float64(t.Displays)*100)
	}
	cards := []string{
		metricCard("Messages", fmt.Sprintf("%d", t.Displays)),
		metricCard("Columns", fmt.Sprintf("%d", t.Columns)),
		metricCard("Holes", fmt.Sprintf("%d", t.Holes)),
		metricCard("Completed", completed),
		metricCard("Avg Columns", fmt.Sprintf("%.1f", t.AvgColumns)),
		metricCard("Punch Rate", fmt.Sprintf("%.1f cols/s", t.PunchRate)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderLengthChart(displays []model.DisplayAggregate, window, width int) string {
	chartWidth := minInt(maxInt(20, width-12), 100)
	var buf bytes.Buffer
	if err := stats.RenderLengthChart(&buf, displays, chartWidth, chartHeight, window); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSparkline(displays []model.DisplayAggregate) string {
	if len(displays) < 2 {
		return ""
	}
	recent := displays
	if len(recent) > sparklineSpan {
		recent = recent[len(recent)-sparklineSpan:]
	}
	return headerStyle.Render("Recent lengths: ") + stats.Sparkline(stats.LengthSeries(recent))
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Count", Width: 8},
		{Title: "Holes", Width: 8},
		{Title: "Share", Width: 7},
	}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	var totalHoles int64
	for _, agg := range aggs {
		totalHoles += agg.Holes
	}
	sorted := stats.TopChars(aggs, len(aggs))
	byChar := make(map[string]model.CharAggregate, len(aggs))
	for _, agg := range aggs {
		byChar[agg.Char] = agg
	}
	rows := make([]table.Row, 0, len(sorted))
	for _, ch := range sorted {
		agg := byChar[ch]
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		share := 0.0
		if totalHoles > 0 {
			share = float64(agg.Holes) / float64(totalHoles) * 100
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%d", agg.Holes),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}

func msgColumns() []table.Column {
	return []table.Column{
		{Title: "Shown", Width: 16},
		{Title: "Source", Width: 8},
		{Title: "Cols", Width: 5},
		{Title: "Holes", Width: 6},
		{Title: "Done", Width: 5},
		{Title: "Text", Width: msgTextColumns},
	}
}

func msgRows(displays []model.DisplayAggregate) []table.Row {
	rows := make([]table.Row, 0, len(displays))
	// Most recent first.
	for i := len(displays) - 1; i >= 0; i-- {
		d := displays[i]
		done := "no"
		if d.Completed {
			done = "yes"
		}
		rows = append(rows, table.Row{
			d.ShownAt.Local().Format("2006-01-02 15:04"),
			d.Source,
			fmt.Sprintf("%d", d.Columns),
			fmt.Sprintf("%d", d.Holes),
			done,
			truncateLine(d.Text, msgTextColumns),
		})
	}
	return rows
}

func statsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// sizeTable converges the table's inner height so the rendered view fills
// the body exactly; bubbles/table adds header chrome of its own.
func sizeTable(t *table.Model, width, height int) {
	t.SetWidth(width)
	t.SetHeight(maxInt(1, height-1))
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(t.View())
		if viewHeight == height {
			break
		}
		h := t.Height() + height - viewHeight
		if h < 1 {
			h = 1
		}
		t.SetHeight(h)
	}
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	source := strings.TrimSpace(m.filterInputs[0].Value())
	sinceInput := strings.TrimSpace(m.filterInputs[1].Value())
	var since *time.Time
	if sinceInput != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	lastInput := strings.TrimSpace(m.filterInputs[2].Value())
	last := 0
	if lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		last = parsed
	}

	windowInput := strings.TrimSpace(m.filterInputs[3].Value())
	window := 0
	if windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return fmt.Errorf("invalid chart window (use integer)")
		}
		if parsed < 1 {
			return fmt.Errorf("invalid chart window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Source:      source,
		Since:       since,
		Last:        last,
		ChartWindow: window,
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
