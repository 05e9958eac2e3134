// Package ui implements the Bubble Tea console for the food platform admin
// API: one screen per managed resource, plus the order lifecycle actions.
package ui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/media"
	"github.com/kcherif/maitre/internal/orders"
	"github.com/kcherif/maitre/internal/prefs"
	"github.com/kcherif/maitre/internal/session"
	"github.com/kcherif/maitre/internal/store"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       *api.Client
	Session      *session.Session
	Machine      *orders.Machine
	PageSize     int
	ImageOptions media.Options
	PollTick     time.Duration
	ThemeName    string
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *api.Client
	sess      *session.Session
	machine   *orders.Machine
	pageSize  int
	imageOpts media.Options
	pollTick  time.Duration
	prefsPath string

	// UI state
	theme    Theme
	keys     keyMap
	screen   Screen
	width    int
	height   int
	ready    bool
	showHelp bool

	// Per-screen collections; only the active screen's is non-nil.
	collections collections

	// Per-screen view state
	selected map[Screen]int
	page     map[Screen]int

	// Search / filter state (reset on screen switch)
	query       string
	searching   bool
	searchInput textinput.Model
	menuFilter  int64 // category id, 0 = all

	// Async state
	busy bool
	spin spinner.Model

	// Overlays
	form       *form
	modal      Modal
	actionMenu *actionMenu

	// Pagination widget (display only; page state lives in m.page)
	pager paginator.Model

	status statusLine
}

type statusLine struct {
	info           string
	err            string
	sessionExpired bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 5 * time.Second
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	imageOpts := opts.ImageOptions
	if imageOpts.MaxWidth <= 0 {
		imageOpts = media.DefaultOptions()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	machine := opts.Machine
	if machine == nil {
		machine = orders.NewMachine(opts.Client)
	}

	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	pager := paginator.New()
	pager.Type = paginator.Dots

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		sess:        opts.Session,
		machine:     machine,
		pageSize:    pageSize,
		imageOpts:   imageOpts,
		pollTick:    pollTick,
		prefsPath:   prefsPath,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		screen:      ScreenCategories,
		selected:    make(map[Screen]int),
		page:        make(map[Screen]int),
		searchInput: search,
		spin:        spin,
		pager:       pager,
	}
	m.collections.open(ScreenCategories)
	if opts.Session != nil && opts.Session.Expired(time.Now()) {
		m.status.sessionExpired = true
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.fetchCmd(m.screen),
		m.spin.Tick,
	)
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
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case formErrMsg:
		m.busy = false
		if m.form != nil {
			m.form.err = string(msg)
		}
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.status.err = "copy failed: " + msg.err.Error()
		} else {
			m.status.info = "id copied"
		}
		return m, nil
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
	if m.form != nil {
		return m.renderForm()
	}
	if m.modal != nil {
		return m.renderOverlay(m.modal.View(m.theme, m.width, m.height))
	}
	if m.actionMenu != nil {
		return m.renderOverlay(m.actionMenu.View(m.theme))
	}
	return m.renderMain()
}

// Messages

type tickMsg time.Time

type fetchDoneMsg struct {
	screen Screen
	err    error
}

type mutationDoneMsg struct {
	screen Screen
	verb   string
	err    error
}

type formErrMsg string

type clipboardDoneMsg struct {
	err error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func copyIDCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return clipboardDoneMsg{err: clipboard.WriteAll(strconv.FormatInt(id, 10))}
	}
}

// handleTick re-fetches the orders screen so status changes made elsewhere
// show up without manual refreshes. A tick never interrupts an open form,
// an overlay, or an in-flight request.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.screen == ScreenOrders && !m.busy && m.form == nil && m.modal == nil && m.actionMenu == nil {
		cmds = append(cmds, m.fetchCmd(m.screen))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen {
		// Stale result from a screen that was since closed.
		return m, nil
	}
	m.busy = false
	switch {
	case msg.err == nil:
		m.status.err = ""
		m.status.sessionExpired = false
		m.clampSelection()
	case isAuthErr(msg.err):
		m.status.sessionExpired = true
	case isBusyErr(msg.err):
		// Overlapping refresh; the in-flight request wins.
	default:
		m.status.err = msg.err.Error()
	}
	return m, nil
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.screen != m.screen {
		// Stale result from a screen that was since closed. The current
		// screen's own fetch is still in flight; leave its spinner alone.
		return m, nil
	}
	m.busy = false
	switch {
	case msg.err == nil:
		m.form = nil
		m.modal = nil
		m.actionMenu = nil
		m.status.info = msg.verb
		m.status.err = ""
		m.clampSelection()
	case isAuthErr(msg.err):
		m.status.sessionExpired = true
	default:
		// The form (when open) keeps its values so the user can retry.
		if m.form != nil {
			m.form.err = msg.err.Error()
		} else {
			m.status.err = msg.err.Error()
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		if cmd != nil {
			m.busy = true
			return m, tea.Batch(cmd, m.spin.Tick)
		}
		return m, nil
	}

	if m.actionMenu != nil {
		return m.handleActionMenuKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, PageSize: m.pageSize})
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m.startFetch()

	case key.Matches(msg, keys.Escape):
		m.query = ""
		m.menuFilter = 0
		m.status.info = ""
		m.status.err = ""
		return m, nil

	case key.Matches(msg, keys.Categories):
		return m.switchScreen(ScreenCategories)
	case key.Matches(msg, keys.Menu):
		return m.switchScreen(ScreenMenu)
	case key.Matches(msg, keys.Orders):
		return m.switchScreen(ScreenOrders)
	case key.Matches(msg, keys.Users):
		return m.switchScreen(ScreenUsers)
	case key.Matches(msg, keys.Offers):
		return m.switchScreen(ScreenOffers)
	case key.Matches(msg, keys.Messages):
		return m.switchScreen(ScreenMessages)
	case key.Matches(msg, keys.NextScreen):
		return m.switchScreen(m.screen.next())

	case key.Matches(msg, keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, keys.Top):
		m.selected[m.screen] = 0
		return m, nil
	case key.Matches(msg, keys.Bottom):
		m.selected[m.screen] = m.currentView().Total
		m.clampSelection()
		return m, nil
	case key.Matches(msg, keys.PrevPage):
		m.changePage(-1)
		return m, nil
	case key.Matches(msg, keys.NextPage):
		m.changePage(1)
		return m, nil

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.CycleFilter):
		if m.screen == ScreenMenu {
			m.cycleMenuFilter()
		}
		return m, nil

	case key.Matches(msg, keys.CopyID):
		if id, ok := m.selectedID(); ok {
			return m, copyIDCmd(id)
		}
		return m, nil

	case key.Matches(msg, keys.New):
		return m.openCreateForm()

	case key.Matches(msg, keys.Edit):
		return m.openEditForm()

	case key.Matches(msg, keys.Delete):
		return m.openDeleteConfirm()

	case key.Matches(msg, keys.OrderActions):
		return m.openActionMenu()
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.query = m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		m.page[m.screen] = 1
		m.clampSelection()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// startFetch kicks off a refresh of the active screen.
func (m Model) startFetch() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	return m, tea.Batch(m.fetchCmd(m.screen), m.spin.Tick)
}

func (m Model) switchScreen(s Screen) (tea.Model, tea.Cmd) {
	if s == m.screen {
		return m, nil
	}
	// The outgoing screen's collection is discarded; anything still in
	// flight for it reconciles into nothing.
	m.collections.close(m.screen)
	m.screen = s
	m.selected[s] = 0
	m.page[s] = 1
	m.query = ""
	m.menuFilter = 0
	m.searching = false
	m.status.info = ""
	m.status.err = ""
	m.collections.open(s)
	m.busy = true
	return m, tea.Batch(m.fetchCmd(s), m.spin.Tick)
}

func (m *Model) moveSelection(delta int) {
	m.selected[m.screen] += delta
	m.clampSelection()
}

func (m *Model) changePage(delta int) {
	view := m.currentView()
	page := m.page[m.screen] + delta
	if page < 1 {
		page = 1
	}
	if page > view.TotalPages {
		page = view.TotalPages
	}
	m.page[m.screen] = page
	m.selected[m.screen] = 0
}

func (m *Model) clampSelection() {
	view := m.currentView()
	m.page[m.screen] = view.Page
	sel := m.selected[m.screen]
	if sel >= len(view.Rows) {
		sel = len(view.Rows) - 1
	}
	if sel < 0 {
		sel = 0
	}
	m.selected[m.screen] = sel
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func isAuthErr(err error) bool {
	return errors.Is(err, api.ErrAuthRequired)
}

func isBusyErr(err error) bool {
	return errors.Is(err, store.ErrBusy) || errors.Is(err, store.ErrClosed)
}
