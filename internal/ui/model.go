package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/daemon"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
)

const noticeTimeout = 5 * time.Second

// raiseMsg asks the model to show and focus the wallet window.
type raiseMsg struct{}

// statusMsg carries a connectivity result from the background worker.
type statusMsg daemon.StatusUpdate

// openWindowMsg pushes a window onto the stack.
type openWindowMsg struct {
	kind WindowKind
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarn
	noticeError
)

// noticeMsg shows a transient notification.
type noticeMsg struct {
	text  string
	level noticeLevel
}

// clearNoticeMsg hides notification seq if it is still the current one.
type clearNoticeMsg struct {
	seq int
}

// Model is the root Bubble Tea model. Windows form a stack, the last entry
// is on top. With an empty stack the application stays resident.
type Model struct {
	app  *config.AppContext
	keys KeyMap

	windows []WindowKind
	focused bool

	status     *daemon.StatusUpdate
	connection DoubleStateLabel
	spinner    spinner.Model

	notice    noticeMsg
	noticeSeq int

	buttons []StatusBarButton

	width  int
	height int

	copyToClipboard func(string) error
	refresh         func()
	raised          int
	quitting        bool
}

// NewModel creates the root model with the wallet window open. refresh
// requests an immediate connectivity check, copyFn writes to the clipboard.
// Either may be nil.
func NewModel(app *config.AppContext, refresh func(), copyFn func(string) error) Model {
	keys := DefaultKeyMap()
	if refresh == nil {
		refresh = func() {}
	}
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := Model{
		app:             app,
		keys:            keys,
		windows:         []WindowKind{WindowWallet},
		focused:         true,
		connection:      NewDoubleStateLabel("connected", "disconnected"),
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		copyToClipboard: copyFn,
		refresh:         refresh,
	}

	m.buttons = []StatusBarButton{
		{Key: keys.Copy, Text: "copy dir", Action: m.copyWalletDir},
		{Key: keys.Settings, Text: "settings", Action: openWindow(WindowSettings)},
		{Key: keys.About, Text: "about", Action: openWindow(WindowAbout)},
		{Key: keys.Quit, Text: "quit", Action: func() tea.Msg { return tea.QuitMsg{} }},
	}
	return m
}

func openWindow(kind WindowKind) func() tea.Msg {
	return func() tea.Msg {
		return openWindowMsg{kind: kind}
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Windows returns the open windows, bottom first.
func (m Model) Windows() []WindowKind {
	return append([]WindowKind(nil), m.windows...)
}

// Focused reports whether the top window has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Raised counts activation requests from other launches.
func (m Model) Raised() int {
	return m.raised
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case raiseMsg:
		m.raised++
		m.open(WindowWallet)
		logging.L.Debug().Msg("window raised")
		return m, nil

	case openWindowMsg:
		m.open(msg.kind)
		return m, nil

	case statusMsg:
		update := daemon.StatusUpdate(msg)
		m.status = &update
		m.connection.SetMode(update.Connected)
		if update.Lost {
			cmd := m.notify(fmt.Sprintf("lost connection to daemon at %s", update.Address), noticeError)
			return m, cmd
		}
		return m, nil

	case noticeMsg:
		cmd := m.notify(msg.text, msg.level)
		return m, cmd

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = noticeMsg{}
		}
		return m, nil

	case tea.QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		// only spins until the first status arrives
		if m.status != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		m.closeTop()
		return m, nil

	case key.Matches(msg, m.keys.Wallet):
		m.open(WindowWallet)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		cmd := m.notify("checking daemon connection", noticeInfo)
		return m, cmd

	case key.Matches(msg, m.keys.Offline):
		cmd := m.toggleOffline()
		return m, cmd
	}

	for _, b := range m.buttons {
		if key.Matches(msg, b.Key) {
			return m, b.Click()
		}
	}
	return m, nil
}

// open brings kind to the top of the stack, creating it if needed.
func (m *Model) open(kind WindowKind) {
	for i, w := range m.windows {
		if w == kind {
			m.windows = append(m.windows[:i:i], m.windows[i+1:]...)
			break
		}
	}
	m.windows = append(m.windows, kind)
	m.focused = true
}

func (m *Model) closeTop() {
	if len(m.windows) == 0 {
		return
	}
	m.windows = m.windows[:len(m.windows)-1]
	if len(m.windows) == 0 {
		m.focused = false
		logging.L.Debug().Msg("last window closed, staying resident")
	}
}

func (m *Model) notify(text string, level noticeLevel) tea.Cmd {
	m.noticeSeq++
	m.notice = noticeMsg{text: text, level: level}
	seq := m.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m Model) copyWalletDir() tea.Msg {
	dir := m.app.Paths.WalletDir
	if err := m.copyToClipboard(dir); err != nil {
		logging.L.Warn().Err(err).Msg("clipboard unavailable")
		return noticeMsg{text: "could not copy to clipboard: " + err.Error(), level: noticeWarn}
	}
	return noticeMsg{text: "copied " + dir, level: noticeInfo}
}

func (m *Model) toggleOffline() tea.Cmd {
	s := m.app.Settings
	s.SetOfflineMode(!s.OfflineMode())
	m.refresh()

	state := "off"
	if s.OfflineMode() {
		state = "on"
	}
	if err := s.Save(); err != nil {
		logging.L.Err(err).Msg("could not persist settings")
		return m.notify("offline mode "+state+", not saved: "+err.Error(), noticeWarn)
	}
	return m.notify("offline mode "+state, noticeInfo)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if len(m.windows) == 0 {
		return StyleSubtle.Render(fmt.Sprintf(
			"%s is running in the background (%s). ", config.AppName, m.app.Network,
		)) + HelpLabel{Bindings: []key.Binding{m.keys.Wallet, m.keys.Quit}}.View()
	}

	var b strings.Builder
	b.WriteString(m.renderWindow(m.windows[len(m.windows)-1]))
	b.WriteString("\n")
	if m.notice.text != "" {
		b.WriteString(m.noticeView())
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) noticeView() string {
	switch m.notice.level {
	case noticeError:
		return StyleError.Render(m.notice.text)
	case noticeWarn:
		return StyleWarning.Render(m.notice.text)
	default:
		return StyleSubtle.Render(m.notice.text)
	}
}

func (m Model) connectionView() string {
	switch {
	case m.status == nil:
		return m.spinner.View() + " checking"
	case m.status.Offline:
		return StyleWarning.Render("offline mode")
	default:
		return m.connection.View()
	}
}

func (m Model) statusBar() string {
	left := StyleStatusBar.Render(fmt.Sprintf("%s  %s", m.app.Network, m.connectionView()))

	buttons := make([]string, 0, len(m.buttons))
	for _, b := range m.buttons {
		buttons = append(buttons, b.View())
	}
	right := StyleStatusBar.Render(strings.Join(buttons, "  "))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
