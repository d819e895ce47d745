// Package tui provides the Bubble Tea counters dashboard.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/display"
	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/model"
	"github.com/verte-zerg/shomar/internal/schedule"
	"github.com/verte-zerg/shomar/internal/stats"
)

const plotHeight = 8

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
	cardStyle   = lipgloss.NewStyle().
			Width(cardWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedCardStyle = cardStyle.Copy().BorderForeground(lipgloss.Color("#C89A3A"))
	cardTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cardRateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Refresh carries fetched averages and detail records into the dashboard.
type Refresh struct {
	Source      string
	Snapshots   []model.Snapshot
	Details     map[string]model.Detail
	LastUpdated time.Time
}

// Loader fetches a Refresh. It runs off the update loop and must not touch
// the engine.
type Loader func(ctx context.Context) (Refresh, error)

// Options configures a dashboard.
type Options struct {
	Engine  *counter.Engine
	Driver  *schedule.Driver
	Printer *display.Printer
	Hidden  []string
	Details map[string]model.Detail
	Loader  Loader
	Logger  *slog.Logger
	Context context.Context
}

type card struct {
	id    string
	count int64
}

type tickMsg schedule.Tick

type refreshMsg struct {
	refresh Refresh
	err     error
}

// Model implements the Bubble Tea dashboard. It is the engine's Renderer and
// the only code that mutates engine state while the program runs.
type Model struct {
	ctx     context.Context
	engine  *counter.Engine
	driver  *schedule.Driver
	printer *display.Printer
	loader  Loader
	logger  *slog.Logger

	cards     []card
	index     map[string]int
	selected  int
	rowOffset int
	details   map[string]model.Detail

	now         time.Time
	periodLabel string
	source      string
	lastUpdated time.Time

	modalOpen bool
	modal     viewport.Model

	width  int
	height int
}

// NewModel constructs the dashboard and publishes the first evaluation.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	printer := opts.Printer
	if printer == nil {
		printer = display.NewPrinter(display.Persian)
	}
	driver := opts.Driver
	if driver == nil {
		driver = schedule.NewDriver(counter.ClockFunc(opts.Engine.Now))
	}
	hidden := make(map[string]bool, len(opts.Hidden))
	for _, id := range opts.Hidden {
		hidden[id] = true
	}
	m := &Model{
		ctx:     ctx,
		engine:  opts.Engine,
		driver:  driver,
		printer: printer,
		loader:  opts.Loader,
		logger:  logger,
		index:   map[string]int{},
		details: opts.Details,
		modal:   viewport.New(0, 0),
	}
	if m.details == nil {
		m.details = map[string]model.Detail{}
	}
	for _, id := range m.engine.Registry().IDs() {
		if hidden[id] {
			continue
		}
		m.index[id] = len(m.cards)
		m.cards = append(m.cards, card{id: id})
	}
	m.publish(m.engine.Now())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.driver.Start(m.ctx, m.engine.Period())
	cmds := []tea.Cmd{waitForTick(m.driver.C())}
	if m.loader != nil {
		cmds = append(cmds, m.load())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutModal()
		return m, nil
	case tickMsg:
		tick := schedule.Tick(msg)
		if m.driver.Current(tick) {
			m.publish(tick.Now)
		}
		return m, waitForTick(m.driver.C())
	case refreshMsg:
		m.applyRefresh(msg)
		return m, nil
	case tea.KeyMsg:
		if m.modalOpen {
			return m.updateModal(msg)
		}
		return m.updateDashboard(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.modalOpen {
		box := modalStyle.Width(modalWidth(m.width)).Render(m.modal.View() + "\n" + footerStyle.Render(helpLine(keys.Close)))
		return fitLines(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box), m.width, m.height)
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := fitLines(m.renderCards(bodyHeight), m.width, bodyHeight)
	return strings.Join([]string{padLines(header, m.width), body, padLines(footer, m.width)}, "\n")
}

// RenderCount implements counter.Renderer.
func (m *Model) RenderCount(id string, count int64, _ counter.Period) error {
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", counter.ErrNoTarget, id)
	}
	m.cards[i].count = count
	return nil
}

// RenderPeriod implements counter.Renderer.
func (m *Model) RenderPeriod(p counter.Period) error {
	m.periodLabel = m.printer.PeriodLabel(p, m.now)
	return nil
}

// Stop cancels the re-evaluation timer.
func (m *Model) Stop() {
	m.driver.Stop()
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.driver.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.RealTime):
		m.switchPeriod(counter.RealTime)
	case key.Matches(msg, keys.Daily):
		m.switchPeriod(counter.Daily)
	case key.Matches(msg, keys.Monthly):
		m.switchPeriod(counter.Monthly)
	case key.Matches(msg, keys.Yearly):
		m.switchPeriod(counter.Yearly)
	case key.Matches(msg, keys.PrevTab):
		m.switchPeriod(shiftPeriod(m.engine.Period(), -1))
	case key.Matches(msg, keys.NextTab):
		m.switchPeriod(shiftPeriod(m.engine.Period(), 1))
	case key.Matches(msg, keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, keys.Open):
		m.openModal()
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.driver.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Close):
		m.modalOpen = false
		return m, nil
	case key.Matches(msg, keys.ScrollTop):
		m.modal.GotoTop()
		return m, nil
	case key.Matches(msg, keys.ScrollEnd):
		m.modal.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

func (m *Model) switchPeriod(p counter.Period) {
	if p == m.engine.Period() && m.driver.Running() {
		return
	}
	readings, err := m.engine.SetPeriod(p)
	if err != nil {
		m.logger.Warn("failed to switch period", "period", p.String(), "err", err)
		return
	}
	m.now = m.engine.Now()
	m.engine.Publish(m, readings)
	m.driver.Start(m.ctx, p)
}

func (m *Model) publish(now time.Time) {
	m.now = now
	m.engine.Publish(m, m.engine.Evaluate(now))
}

func (m *Model) moveSelection(delta int) {
	if len(m.cards) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.cards)) % len(m.cards)
}

func (m *Model) load() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		refresh, err := loader(ctx)
		return refreshMsg{refresh: refresh, err: err}
	}
}

func (m *Model) applyRefresh(msg refreshMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to refresh statistics, keeping defaults", "err", msg.err)
		return
	}
	reg := m.engine.Registry()
	for _, snap := range msg.refresh.Snapshots {
		reg.Override(snap.StatID, snap.Rates)
	}
	for id, detail := range msg.refresh.Details {
		m.details[id] = detail
	}
	m.source = msg.refresh.Source
	m.lastUpdated = msg.refresh.LastUpdated
	m.logger.Info("statistics refreshed", "source", m.source, "statistics", len(msg.refresh.Snapshots))
	m.publish(m.engine.Now())
	if m.modalOpen {
		m.renderModal()
	}
}

func (m *Model) openModal() {
	if len(m.cards) == 0 {
		return
	}
	m.modalOpen = true
	m.layoutModal()
	m.renderModal()
	m.modal.GotoTop()
}

func (m *Model) layoutModal() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.modal.Width = modalInnerWidth(width)
	m.modal.Height = maxInt(3, m.height-8)
	if m.modalOpen {
		m.renderModal()
	}
}

func (m *Model) renderModal() {
	id := m.cards[m.selected].id
	stat, _ := m.engine.Registry().Get(id)
	width := m.modal.Width
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, Color: true}
	if err := stats.RenderDetail(&buf, m.printer, id, m.details[id], stat, opts); err != nil {
		m.modal.SetContent(fmt.Sprintf("Failed to render details: %v", err))
		return
	}
	m.modal.SetContent(wrapText(strings.TrimRight(buf.String(), "\n"), width))
}

func (m *Model) renderHeader() string {
	periods := counter.Periods()
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		label := m.printer.PeriodName(p)
		if p == m.engine.Period() {
			parts = append(parts, activeNavStyle.Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.periodLabel, m.width))
}

// renderCards lays the cards out in rows and scrolls whole rows so the
// selected card stays within height lines.
func (m *Model) renderCards(height int) string {
	if len(m.cards) == 0 {
		return headerStyle.Render("No statistics to show.")
	}
	period := m.engine.Period()
	rendered := make([]string, 0, len(m.cards))
	for i, c := range m.cards {
		stat, _ := m.engine.Registry().Get(c.id)
		lines := []string{
			cardTitleStyle.Render(truncateLine(m.printer.StatTitle(c.id), cardWidth-2)),
			cardValueStyle.Render(m.printer.Number(c.count)),
			cardRateStyle.Render(truncateLine(m.printer.RateText(stat, period), cardWidth-2)),
		}
		if detail, ok := m.details[c.id]; ok && len(detail.Values) > 0 {
			lines = append(lines, cardRateStyle.Render(truncateLine(stats.Sparkline(stats.Nullable(detail.Values)), cardWidth-2)))
		}
		style := cardStyle
		if i == m.selected {
			style = selectedCardStyle
		}
		rendered = append(rendered, style.Render(strings.Join(lines, "\n")))
	}
	cols := cardColumns(m.width)
	rows := make([]string, 0, len(rendered)/cols+1)
	for start := 0; start < len(rendered); start += cols {
		end := minInt(start+cols, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	m.rowOffset = scrollOffset(rows, m.selected/cols, m.rowOffset, height)
	return lipgloss.JoinVertical(lipgloss.Left, rows[m.rowOffset:]...)
}

// scrollOffset returns the first row to draw so that row sel fits in
// height lines, moving offset as little as possible.
func scrollOffset(rows []string, sel, offset, height int) int {
	if offset > sel || offset >= len(rows) {
		offset = sel
	}
	used := 0
	for i := offset; i <= sel; i++ {
		used += lipgloss.Height(rows[i])
	}
	for offset < sel && used > height {
		used -= lipgloss.Height(rows[offset])
		offset++
	}
	return offset
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if !m.now.IsZero() {
		date := jalali.ToCivilDate(m.now)
		segments = append(segments, m.printer.NumericDate(date)+" "+m.printer.Clock(m.now))
	}
	if m.source != "" {
		origin := m.source
		if !m.lastUpdated.IsZero() {
			origin += " @ " + m.printer.NumericDate(jalali.ToCivilDate(m.lastUpdated))
		}
		segments = append(segments, origin)
	}
	segments = append(segments, helpLine(keys.RealTime, keys.Daily, keys.Monthly, keys.Yearly, keys.PrevTab, keys.Up, keys.Open, keys.Quit))
	return footerStyle.Render(truncateLine(strings.Join(segments, "  ·  "), m.width))
}

func waitForTick(ch <-chan schedule.Tick) tea.Cmd {
	return func() tea.Msg {
		return tickMsg(<-ch)
	}
}

func shiftPeriod(p counter.Period, delta int) counter.Period {
	periods := counter.Periods()
	n := len(periods)
	return periods[((int(p)+delta)%n+n)%n]
}
