package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/daemon"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp() *config.AppContext {
	return &config.AppContext{
		Network:  config.Testnet,
		Settings: config.NewSettings(afero.NewMemMapFs()),
		Paths: config.ResolvedPaths{
			ConfigDir:  "/home/user/.config/blindbit-desktop",
			WalletDir:  "/home/user/.local/share/blindbit-desktop/wallets",
			ConfigFile: "/home/user/.config/blindbit-desktop/settings.toml",
		},
		Tor: config.TorStatus{Host: "127.0.0.1", Port: 9050, Reason: "bundled"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestCloseLastWindowStaysResident(t *testing.T) {
	m := NewModel(testApp(), nil, nil)
	require.Equal(t, []WindowKind{WindowWallet}, m.Windows())

	m, cmd := update(t, m, keyMsg("esc"))
	assert.Nil(t, cmd, "closing the last window must not quit")
	assert.Empty(t, m.Windows())
	assert.False(t, m.Focused())
	assert.Contains(t, m.View(), "running in the background")

	// closing with nothing open is a no-op
	m, cmd = update(t, m, keyMsg("esc"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Windows())
}

func TestRaiseReopensWalletWindow(t *testing.T) {
	m := NewModel(testApp(), nil, nil)
	m, _ = update(t, m, keyMsg("esc"))

	m, _ = update(t, m, raiseMsg{})
	assert.Equal(t, []WindowKind{WindowWallet}, m.Windows())
	assert.True(t, m.Focused())
	assert.Equal(t, 1, m.Raised())

	// raising moves an existing wallet window back to the top
	m, _ = update(t, m, openWindowMsg{kind: WindowSettings})
	m, _ = update(t, m, raiseMsg{})
	assert.Equal(t, []WindowKind{WindowSettings, WindowWallet}, m.Windows())
	assert.Equal(t, 2, m.Raised())
}

func TestWindowStack(t *testing.T) {
	m := NewModel(testApp(), nil, nil)

	_, cmd := update(t, m, keyMsg("s"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, []WindowKind{WindowWallet, WindowSettings}, m.Windows())
	assert.Contains(t, m.View(), "Settings")

	_, cmd = update(t, m, keyMsg("a"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, []WindowKind{WindowWallet, WindowSettings, WindowAbout}, m.Windows())
	assert.Contains(t, m.View(), config.Version)

	m, _ = update(t, m, keyMsg("esc"))
	assert.Equal(t, []WindowKind{WindowWallet, WindowSettings}, m.Windows())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := NewModel(testApp(), nil, nil)
		m, cmd := update(t, m, keyMsg(k))
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
		assert.Empty(t, m.View())
	}
}

func TestCopyWalletDir(t *testing.T) {
	var copied string
	m := NewModel(testApp(), nil, func(s string) error {
		copied = s
		return nil
	})

	_, cmd := update(t, m, keyMsg("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, "/home/user/.local/share/blindbit-desktop/wallets", copied)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.View(), "copied")
}

func TestCopyWalletDirFailureIsNotice(t *testing.T) {
	m := NewModel(testApp(), nil, func(string) error {
		return errors.New("no clipboard utility")
	})

	_, cmd := update(t, m, keyMsg("y"))
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "no clipboard utility")
	assert.Equal(t, []WindowKind{WindowWallet}, m.Windows())
}

func TestStatusUpdates(t *testing.T) {
	m := NewModel(testApp(), nil, nil)
	assert.Contains(t, m.View(), "checking")

	m, cmd := update(t, m, statusMsg(daemon.StatusUpdate{Address: "127.0.0.1:28081", Connected: true, CheckedAt: time.Now()}))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "connected")

	m, cmd = update(t, m, statusMsg(daemon.StatusUpdate{Address: "127.0.0.1:28081", Lost: true, CheckedAt: time.Now()}))
	assert.NotNil(t, cmd, "lost connection schedules the notice timeout")
	view := m.View()
	assert.Contains(t, view, "lost connection to daemon at 127.0.0.1:28081")
	assert.Contains(t, view, "disconnected")
}

func TestNoticeClears(t *testing.T) {
	m := NewModel(testApp(), nil, nil)
	m, _ = update(t, m, noticeMsg{text: "first"})
	m, _ = update(t, m, noticeMsg{text: "second"})

	// a stale timeout leaves the newer notice alone
	m, _ = update(t, m, clearNoticeMsg{seq: 1})
	assert.Contains(t, m.View(), "second")

	m, _ = update(t, m, clearNoticeMsg{seq: 2})
	assert.NotContains(t, m.View(), "second")
}

func TestRefreshAndOfflineToggle(t *testing.T) {
	app := testApp()
	refreshed := 0
	m := NewModel(app, func() { refreshed++ }, nil)

	m, _ = update(t, m, keyMsg("r"))
	assert.Equal(t, 1, refreshed)

	m, _ = update(t, m, keyMsg("o"))
	assert.True(t, app.Settings.OfflineMode())
	assert.Equal(t, 2, refreshed)
	// the settings were never loaded from a file, so saving fails softly
	assert.Contains(t, m.View(), "not saved")

	m, _ = update(t, m, keyMsg("o"))
	assert.False(t, app.Settings.OfflineMode())
}

func TestStatusBarButtons(t *testing.T) {
	m := NewModel(testApp(), nil, nil)
	labels := make([]string, 0, len(m.buttons))
	for _, b := range m.buttons {
		var l Labeled = b
		var c Clickable = b
		labels = append(labels, l.Label())
		assert.NotNil(t, c.Click())
	}
	assert.Equal(t, "copy dir,settings,about,quit", strings.Join(labels, ","))
}
