package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/grocy-tui/internal/config"
	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/masterdata"
	"github.com/five82/grocy-tui/internal/nav"
	"github.com/five82/grocy-tui/internal/prefs"
	"github.com/five82/grocy-tui/internal/state"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusContent
)

// Options configures the UI.
type Options struct {
	Context          context.Context
	Store            *state.Store
	Config           *config.Config
	Logger           *slog.Logger
	PollTick         time.Duration
	ThemeName        string
	SidebarCollapsed bool
	PrefsPath        string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration
	formOpts  []masterdata.Option
	now       func() time.Time

	presentation masterdata.Presentation

	// UI state
	keys             keyMap
	router           *nav.Router
	theme            Theme
	width            int
	height           int
	ready            bool
	focus            focusArea
	sidebarCollapsed bool
	showHelp         bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Content state
	unitRow  int
	listRows map[grocy.ObjectKind]int
	form     *unitFormView
	modal    Modal
	toast    toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{Capabilities: config.Capabilities{SystemSettings: true}}
	}
	caps := nav.Capabilities{
		SystemSettings: cfg.Capabilities.SystemSettings,
		SidebarToggle:  cfg.Capabilities.SidebarToggle,
	}
	presentation, _ := masterdata.ParsePresentation(cfg.Capabilities.FormPresentation)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:              ctx,
		store:            opts.Store,
		config:           cfg,
		logger:           logger,
		prefsPath:        prefsPath,
		pollTick:         pollTick,
		now:              time.Now,
		keys:             DefaultKeyMap(),
		router:           nav.New(caps),
		theme:            GetTheme(opts.ThemeName),
		sidebarCollapsed: caps.SidebarToggle && opts.SidebarCollapsed,
		listRows:         make(map[grocy.ObjectKind]int),
		presentation:     presentation,
		formOpts: []masterdata.Option{
			masterdata.WithLogger(logger),
			masterdata.WithPresentation(presentation),
			masterdata.WithLocale(cfg.Language()),
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		m.requestRouteData(false)
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = m.now()
		m.clampRows()
		if m.form != nil {
			m.form.form.Revalidate()
		}
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.form != nil {
		return m, m.form.updateInputs(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.closeForm()
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	// An open form owns the keyboard so letters reach its inputs.
	if m.form != nil && m.focus == focusContent {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeForm()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		if m.router.Capabilities().SidebarToggle {
			m.sidebarCollapsed = !m.sidebarCollapsed
			m.savePrefs()
		}
		return m, nil

	case msg.String() == "tab" || msg.String() == "shift+tab":
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleContentKey(msg)
}

func (m *Model) toggleFocus() {
	if m.focus == focusSidebar {
		m.focus = focusContent
		return
	}
	m.focus = focusSidebar
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.router.Next()
		m.routeChanged()
	case key.Matches(msg, m.keys.Up):
		m.router.Prev()
		m.routeChanged()
	case key.Matches(msg, m.keys.Top):
		items := m.router.Items()
		if len(items) > 0 {
			_ = m.router.Select(items[0].Route)
			m.routeChanged()
		}
	case key.Matches(msg, m.keys.Bottom):
		items := m.router.Items()
		if len(items) > 0 {
			_ = m.router.Select(items[len(items)-1].Route)
			m.routeChanged()
		}
	case key.Matches(msg, m.keys.Open):
		m.focus = focusContent
	}
	return m, nil
}

func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || msg.String() == "h" || msg.String() == "left" {
		m.focus = focusSidebar
		return m, nil
	}
	if key.Matches(msg, m.keys.Refresh) {
		m.requestRouteData(true)
		return m, nil
	}

	route, ok := m.router.Selected()
	if !ok {
		return m, nil
	}
	if route == nav.MDQuantityUnits {
		return m.handleUnitListKey(msg)
	}
	if kind, ok := routeKinds[route]; ok {
		m.moveListRow(kind, msg)
	}
	return m, nil
}

// routeChanged drops any open form and loads data for the new route.
func (m *Model) routeChanged() {
	m.closeForm()
	m.requestRouteData(false)
}

func (m *Model) requestRouteData(ignoreCache bool) {
	if m.store == nil {
		return
	}
	route, ok := m.router.Selected()
	if !ok {
		return
	}
	if route == nav.MDQuantityUnits {
		m.store.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions}, ignoreCache)
		return
	}
	if kind, ok := routeKinds[route]; ok {
		m.store.RequestRefresh([]grocy.ObjectKind{kind}, ignoreCache)
	}
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, SidebarCollapsed: m.sidebarCollapsed}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.toast.expire(now)

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	outcome := msg.pending.Complete(msg.result)
	if outcome != masterdata.OutcomeNone {
		m.toast.show(outcome, m.now())
	}

	if cm, ok := m.modal.(*conversionModal); ok && cm.form.CloseRequested() {
		m.modal = nil
		if m.form != nil {
			m.form.form.CloseAddConversion()
		}
	}
	if m.form != nil {
		if m.form.form.CloseRequested() {
			m.closeForm()
		} else {
			m.form.syncInputs()
		}
	}

	if m.store == nil {
		return m, nil
	}
	return m, fetchSnapshotCmd(m.store)
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
		if m.form != nil {
			m.form.form.CloseAddConversion()
		}
		return m, cmd
	}
	m.modal = updated
	return m, cmd
}

// renderMain renders header, sidebar plus content, and the command bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderCommandBar()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	sidebar := m.renderSidebar(bodyHeight)
	contentWidth := max(10, m.width-lipgloss.Width(sidebar))
	content := lipgloss.NewStyle().
		Width(contentWidth).
		Height(bodyHeight).
		Padding(0, 1).
		Render(m.renderContent(contentWidth-2, bodyHeight))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content))
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

// renderContent renders the destination of the current route.
func (m Model) renderContent(width, height int) string {
	item, ok := m.router.SelectedItem()
	if !ok {
		return m.renderEmptySelection()
	}
	if item.Destination == nav.Reserved {
		return m.renderPlaceholder(item, "Not yet implemented.")
	}
	if item.Route == nav.MDQuantityUnits {
		if m.form != nil {
			return m.form.view(m, width)
		}
		return m.renderUnitList(width, height)
	}
	if kind, ok := routeKinds[item.Route]; ok {
		return m.renderNamedList(item, kind, width, height)
	}
	if item.Route == nav.Settings {
		return m.renderSettings(item, width)
	}
	return m.renderPlaceholder(item, "Not available in grocy-tui yet. Use the Grocy web interface.")
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type submitDoneMsg struct {
	pending *masterdata.PendingSubmit
	result  masterdata.SubmitResult
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// submitCmd runs the blocking request off the UI loop; the result comes
// back as a submitDoneMsg so Complete runs on it.
func submitCmd(ctx context.Context, p *masterdata.PendingSubmit) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{pending: p, result: p.Do(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
