// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/tui/dashboard"
	"github.com/markalston/hrms-console/internal/tui/forms"
	"github.com/markalston/hrms-console/internal/tui/menu"
	"github.com/markalston/hrms-console/internal/tui/styles"
	"github.com/markalston/hrms-console/internal/validation"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenDashboard
	ScreenList
	ScreenDetail
	ScreenForm
	ScreenConfirm
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before hiding the menu pane
	panelPadding     = 4  // Total horizontal padding inside a panel (2 each side)
	menuPaneWidth    = 26
)

// Default timings
const (
	DefaultNotifyTimeout = 3 * time.Second
	DefaultRedirectDelay = 2 * time.Second
)

// refreshedMsg is sent when every store has been reloaded
type refreshedMsg struct {
	err error
}

// fetchedMsg is sent when a list screen's stores have been reloaded
type fetchedMsg struct {
	res resource
	err error
}

// detailMsg carries one freshly fetched record
type detailMsg struct {
	id     int64
	fields []present.Field
	status string
	err    error
}

// deletedMsg is sent when a delete completes
type deletedMsg struct {
	res resource
	err error
}

// submittedMsg is sent when an editor's submit completes
type submittedMsg struct {
	ed  *editor
	msg string
	err error
}

// redirectMsg sends the user to the login screen after a session ends
type redirectMsg struct{}

// logoutMsg ends the session after a password change
type logoutMsg struct{}

// Options configures the App
type Options struct {
	Session *session.Store
	API     *client.Client
	Stores  *store.Registry
	// Gateway receives the App's notifier when the program runs
	Gateway *gateway.Client
	APIURL  string

	NotifyTimeout time.Duration
	RedirectDelay time.Duration

	// Context bounds every backend call; defaults to context.Background
	Context context.Context
}

// App is the root model for the TUI
type App struct {
	session       *session.Store
	api           *client.Client
	stores        *store.Registry
	apiURL        string
	notifyTimeout time.Duration
	redirectDelay time.Duration
	ctx           context.Context

	screen  Screen
	// content is the screen shown beside the menu while the menu has focus
	content Screen
	width   int
	height  int

	menu      *menu.Menu
	dashboard *dashboard.Dashboard
	resources map[menu.Item]resource
	current   resource
	table     table.Model
	spinner   spinner.Model
	spinning  bool
	pending   int

	detail       []present.Field
	detailStatus string
	detailID     int64
	detailErr    string

	editor     *editor
	form       *huh.Form
	formErrs   []string
	submitting bool

	confirm     *huh.Form
	confirmOK   bool
	confirmID   int64
	// confirmBack is the screen a cancelled delete returns to
	confirmBack Screen

	toasts      []toast
	nextToast   int
	redirecting bool
}

// New creates a new TUI application
func New(opts Options) *App {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	a := &App{
		session:       opts.Session,
		api:           opts.API,
		stores:        opts.Stores,
		apiURL:        opts.APIURL,
		notifyTimeout: opts.NotifyTimeout,
		redirectDelay: opts.RedirectDelay,
		ctx:           opts.Context,
		menu:          menu.New(),
		dashboard:     dashboard.New(nil, 0, 0),
		resources:     map[menu.Item]resource{},
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.KeyStyle)),
		content:       ScreenDashboard,
	}
	for i, r := range newResources(opts.Stores, opts.Session) {
		a.resources[menu.ItemCompanies+menu.Item(i)] = r
	}

	if a.session.State() == session.Authenticated {
		a.setScreen(ScreenDashboard)
	} else {
		a.openEditor(loginEditor(a.session))
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.form.Init()
	}
	return a.enterDashboard()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(a.innerWidth(), a.contentHeight())
		if a.form != nil {
			a.form = a.form.WithWidth(a.innerWidth())
		}
		if a.current != nil {
			a.syncTable()
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin, ScreenForm:
			return a.updateForm(msg)
		case ScreenConfirm:
			return a.updateConfirm(msg)
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenList:
			return a.updateList(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenProfile:
			return a.updateProfile(msg)
		}
		return a, nil

	case menu.SelectedMsg:
		return a.handleMenuSelected(msg)

	case spinner.TickMsg:
		if a.pending <= 0 {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case notifyMsg:
		return a, a.notify(msg.Level, msg.Message)

	case toastExpiredMsg:
		a.expireToast(msg.id)
		return a, nil

	case refreshedMsg:
		a.done()
		a.refreshSummary()
		if a.current != nil {
			a.syncTable()
		}
		cmd, _ := a.sessionRedirect(msg.err)
		return a, cmd

	case fetchedMsg:
		a.done()
		if msg.res == a.current {
			a.syncTable()
		}
		a.refreshSummary()
		cmd, _ := a.sessionRedirect(msg.err)
		return a, cmd

	case detailMsg:
		a.done()
		return a.handleDetail(msg)

	case deletedMsg:
		a.done()
		return a.handleDeleted(msg)

	case submittedMsg:
		a.done()
		return a.handleSubmitted(msg)

	case redirectMsg:
		a.redirecting = false
		if a.screen == ScreenLogin {
			return a, nil
		}
		_ = a.session.Logout()
		return a, a.toLogin()

	case logoutMsg:
		if a.screen == ScreenLogin {
			return a, nil
		}
		_ = a.session.Logout()
		return a, tea.Batch(a.toLogin(), a.notify(gateway.LevelInfo, "Please log in again with your new password."))

	default:
		// Forward unknown messages to the active form (needed for huh form internals)
		switch a.screen {
		case ScreenLogin, ScreenForm:
			return a.updateForm(msg)
		case ScreenConfirm:
			return a.updateConfirm(msg)
		}
	}

	return a, nil
}

// setScreen switches focus; the menu keeps the last content screen visible
func (a *App) setScreen(s Screen) {
	a.screen = s
	if s != ScreenMenu && s != ScreenLogin {
		a.content = s
	}
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "tab":
		a.setScreen(a.content)
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

// updateNav handles the keys shared by every content screen. ok reports
// whether the key was consumed.
func (a *App) updateNav(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "tab":
		a.setScreen(ScreenMenu)
		return nil, true
	}
	// Digits jump through the menu
	if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		model, cmd := a.menu.Update(msg)
		a.menu = model.(*menu.Menu)
		return cmd, true
	}
	return nil, false
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.updateNav(msg); ok {
		return a, cmd
	}
	switch msg.String() {
	case "r":
		return a, a.refreshAll()
	case "esc", "b":
		a.setScreen(ScreenMenu)
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.updateNav(msg); ok {
		return a, cmd
	}
	switch msg.String() {
	case "r":
		return a, a.fetchCurrent()
	case "n":
		return a, a.openEditor(a.current.Editor(0))
	case "e":
		if id, ok := a.current.IDAt(a.table.Cursor()); ok {
			return a, a.openEditor(a.current.Editor(id))
		}
		return a, nil
	case "d":
		if id, ok := a.current.IDAt(a.table.Cursor()); ok {
			return a, a.askDelete(id)
		}
		return a, nil
	case "enter":
		if id, ok := a.current.IDAt(a.table.Cursor()); ok {
			return a, a.openDetail(id)
		}
		return a, nil
	case "esc", "b":
		a.setScreen(ScreenMenu)
		return a, nil
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.updateNav(msg); ok {
		return a, cmd
	}
	switch msg.String() {
	case "e":
		if a.detail != nil {
			return a, a.openEditor(a.current.Editor(a.detailID))
		}
	case "d":
		if a.detail != nil {
			return a, a.askDelete(a.detailID)
		}
	case "r":
		return a, a.openDetail(a.detailID)
	case "esc", "b":
		a.setScreen(ScreenList)
	}
	return a, nil
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.updateNav(msg); ok {
		return a, cmd
	}
	switch msg.String() {
	case "p":
		return a, a.openEditor(passwordEditor(a.api.Auth))
	case "esc", "b":
		a.setScreen(ScreenMenu)
	}
	return a, nil
}

func (a *App) handleMenuSelected(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Item {
	case menu.ItemDashboard:
		return a, a.enterDashboard()
	case menu.ItemProfile:
		a.setScreen(ScreenProfile)
		return a, nil
	case menu.ItemPassword:
		return a, a.openEditor(passwordEditor(a.api.Auth))
	case menu.ItemLogout:
		_ = a.session.Logout()
		return a, tea.Batch(a.toLogin(), a.notify(gateway.LevelInfo, "Logged out."))
	}
	if res, ok := a.resources[msg.Item]; ok {
		return a, a.openList(res)
	}
	return a, nil
}

// enterDashboard shows the overview and reloads every store
func (a *App) enterDashboard() tea.Cmd {
	a.setScreen(ScreenDashboard)
	a.refreshSummary()
	return a.refreshAll()
}

// openList shows one resource's table and reloads it with the stores its
// form depends on
func (a *App) openList(res resource) tea.Cmd {
	if res != a.current {
		a.current = res
		a.table = table.Model{}
	}
	a.syncTable()
	a.setScreen(ScreenList)
	return a.fetchCurrent()
}

func (a *App) openDetail(id int64) tea.Cmd {
	a.detailID = id
	a.detail = nil
	a.detailStatus = ""
	a.detailErr = ""
	a.setScreen(ScreenDetail)
	res := a.current
	return a.start(func() tea.Msg {
		fields, status, err := res.Detail(a.ctx, id)
		return detailMsg{id: id, fields: fields, status: status, err: err}
	})
}

func (a *App) handleDetail(msg detailMsg) (tea.Model, tea.Cmd) {
	if msg.id != a.detailID {
		return a, nil
	}
	if msg.err != nil {
		if cmd, ended := a.sessionRedirect(msg.err); ended {
			return a, cmd
		}
		a.detailErr = a.current.Failed("load", gateway.Message(msg.err))
		return a, nil
	}
	a.detail = msg.fields
	a.detailStatus = msg.status
	return a, nil
}

// askDelete opens the delete confirmation
func (a *App) askDelete(id int64) tea.Cmd {
	a.confirmID = id
	a.confirmOK = false
	a.confirmBack = a.screen
	question := fmt.Sprintf("Delete %s #%d?", a.current.Singular(), id)
	a.confirm = forms.Confirm(question, &a.confirmOK).WithWidth(a.innerWidth())
	a.setScreen(ScreenConfirm)
	return a.confirm.Init()
}

func (a *App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.confirm == nil {
		return a, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.confirm = nil
		a.setScreen(a.confirmBack)
		return a, nil
	}

	model, cmd := a.confirm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.confirm = f
	}

	switch a.confirm.State {
	case huh.StateCompleted:
		a.confirm = nil
		if !a.confirmOK {
			a.setScreen(a.confirmBack)
			return a, nil
		}
		a.setScreen(ScreenList)
		res, id := a.current, a.confirmID
		return a, tea.Batch(cmd, a.start(func() tea.Msg {
			return deletedMsg{res: res, err: res.Delete(a.ctx, id)}
		}))
	case huh.StateAborted:
		a.confirm = nil
		a.setScreen(a.confirmBack)
		return a, nil
	}
	return a, cmd
}

func (a *App) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if cmd, ended := a.sessionRedirect(msg.err); ended {
			return a, cmd
		}
		return a, a.notify(gateway.LevelError, msg.res.Failed("delete", gateway.Message(msg.err)))
	}
	if msg.res == a.current {
		a.syncTable()
	}
	a.refreshSummary()
	return a, a.notify(gateway.LevelSuccess, msg.res.Deleted())
}

// openEditor shows an editor's form
func (a *App) openEditor(ed *editor) tea.Cmd {
	a.editor = ed
	a.formErrs = nil
	a.submitting = false
	a.form = ed.build().WithWidth(a.innerWidth())
	if ed.then == nextDashboard {
		a.setScreen(ScreenLogin)
	} else {
		a.setScreen(ScreenForm)
	}
	return a.form.Init()
}

func (a *App) closeEditor(back Screen) {
	a.editor = nil
	a.form = nil
	a.formErrs = nil
	a.submitting = false
	a.setScreen(back)
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil || a.submitting {
		return a, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		if a.screen == ScreenLogin {
			return a, nil
		}
		a.closeEditor(a.editor.back)
		return a, nil
	}

	model, cmd := a.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a, tea.Batch(cmd, a.submit())
	case huh.StateAborted:
		if a.screen != ScreenLogin {
			a.closeEditor(a.editor.back)
		}
		return a, nil
	}
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	ed := a.editor
	a.submitting = true
	return a.start(func() tea.Msg {
		msg, err := ed.submit(a.ctx)
		return submittedMsg{ed: ed, msg: msg, err: err}
	})
}

func (a *App) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	// The user may have left the form, or logged out, meanwhile
	if msg.ed != a.editor {
		cmd, _ := a.sessionRedirect(msg.err)
		return a, cmd
	}
	a.submitting = false
	if msg.err != nil {
		return a.submitFailed(msg.err)
	}

	cmds := []tea.Cmd{a.notify(gateway.LevelSuccess, msg.msg)}
	switch msg.ed.then {
	case nextDashboard:
		a.closeEditor(ScreenDashboard)
		cmds = append(cmds, a.enterDashboard())
	case nextLogin:
		a.closeEditor(ScreenProfile)
		cmds = append(cmds, after(a.redirectDelay, logoutMsg{}))
	default:
		a.closeEditor(ScreenList)
		a.syncTable()
		a.refreshSummary()
	}
	return a, tea.Batch(cmds...)
}

// submitFailed rebuilds the form so the user can correct and resubmit
func (a *App) submitFailed(err error) (tea.Model, tea.Cmd) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		a.formErrs = make([]string, len(verrs))
		for i, fe := range verrs {
			a.formErrs[i] = fe.Message
		}
		a.form = a.editor.build().WithWidth(a.innerWidth())
		return a, tea.Batch(a.form.Init(), a.notify(gateway.LevelError, "Please fix the errors in the form."))
	}
	// The gateway has already told the user why the session ended
	if cmd, ended := a.sessionRedirect(err); ended {
		return a, cmd
	}
	a.formErrs = nil
	a.form = a.editor.build().WithWidth(a.innerWidth())
	return a, tea.Batch(a.form.Init(), a.notify(gateway.LevelError, a.editor.failed(err)))
}

// sessionRedirect schedules the trip to the login screen. ended reports
// whether err ended the session.
func (a *App) sessionRedirect(err error) (cmd tea.Cmd, ended bool) {
	se, ok := gateway.AsSessionError(err)
	if !ok {
		return nil, false
	}
	if a.redirecting || a.screen == ScreenLogin {
		return nil, true
	}
	a.redirecting = true
	return after(se.RedirectAfter, redirectMsg{}), true
}

// toLogin clears every store and shows the login form
func (a *App) toLogin() tea.Cmd {
	a.stores.Clear()
	a.current = nil
	a.table = table.Model{}
	a.detail = nil
	a.confirm = nil
	a.dashboard.Update(nil)
	a.content = ScreenDashboard
	return a.openEditor(loginEditor(a.session))
}

func (a *App) refreshAll() tea.Cmd {
	return a.start(func() tea.Msg {
		return refreshedMsg{err: a.stores.RefreshAll(a.ctx)}
	})
}

func (a *App) fetchCurrent() tea.Cmd {
	res := a.current
	names := append([]string{res.Name()}, res.Needs()...)
	return a.start(func() tea.Msg {
		return fetchedMsg{res: res, err: a.stores.Refresh(a.ctx, names...)}
	})
}

// start runs fn as a command and keeps the spinner going until it reports
func (a *App) start(fn tea.Cmd) tea.Cmd {
	a.pending++
	if a.spinning {
		return fn
	}
	a.spinning = true
	return tea.Batch(fn, a.spinner.Tick)
}

func (a *App) done() {
	if a.pending > 0 {
		a.pending--
	}
}

func (a *App) refreshSummary() {
	s := dashboard.Summarize(a.stores, a.session.User(), time.Now().Format(validation.DateLayout))
	a.dashboard.Update(&s)
}

// syncTable rebuilds the list table from the current store, keeping the cursor
func (a *App) syncTable() {
	headers := a.current.Headers()
	rows := a.current.Rows()

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := len([]rune(h))
		for _, r := range rows {
			w = max(w, len([]rune(r[i])))
		}
		cols[i] = table.Column{Title: h, Width: min(w, 30)}
	}
	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		trows[i] = table.Row(r)
	}

	cursor := a.table.Cursor()
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(styles.Primary).Bold(true)
	s.Selected = s.Selected.Foreground(styles.Text).Background(styles.Surface).Bold(true)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(trows),
		table.WithFocused(true),
		table.WithHeight(max(a.contentHeight()-4, 3)),
		table.WithStyles(s),
	)
	if len(trows) > 0 {
		t.SetCursor(min(cursor, len(trows)-1))
	}
	a.table = t
}

// after delivers msg once d has passed
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Run starts the TUI
func Run(opts Options) error {
	app := New(opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(app.ctx),
	)
	if opts.Gateway != nil {
		opts.Gateway.SetNotifier(gateway.NotifierFunc(func(n gateway.Notification) {
			p.Send(notifyMsg(n))
		}))
	}
	_, err := p.Run()
	return err
}
