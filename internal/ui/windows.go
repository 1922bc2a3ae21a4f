package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/setavenger/blindbit-desktop/internal/config"
)

// WindowKind identifies one of the application windows.
type WindowKind int

const (
	WindowWallet WindowKind = iota
	WindowSettings
	WindowAbout
)

func (w WindowKind) String() string {
	switch w {
	case WindowWallet:
		return "wallet"
	case WindowSettings:
		return "settings"
	case WindowAbout:
		return "about"
	default:
		return "unknown"
	}
}

const projectURL = "https://github.com/setavenger/blindbit-desktop"

func (m Model) renderWindow(kind WindowKind) string {
	switch kind {
	case WindowWallet:
		return m.walletWindow()
	case WindowSettings:
		return m.settingsWindow()
	case WindowAbout:
		return m.aboutWindow()
	default:
		return ""
	}
}

func (m Model) walletWindow() string {
	lastCheck := "never"
	if m.status != nil {
		lastCheck = m.status.CheckedAt.Format(time.TimeOnly)
	}

	frame := InfoFrame{
		Title:   fmt.Sprintf("%s · %s", config.AppName, m.app.Network.Title()),
		Focused: m.focused,
		Width:   m.width,
		Rows: []InfoRow{
			{Name: "Wallet directory", Value: m.app.Paths.WalletDir},
			{Name: "Daemon", Value: m.app.DaemonAddress()},
			{Name: "Connection", Value: m.connectionView()},
			{Name: "Last check", Value: lastCheck},
			{Name: "Tor", Value: m.torSummary()},
		},
	}

	help := HelpLabel{Bindings: []key.Binding{m.keys.Copy, m.keys.Refresh, m.keys.Settings, m.keys.About, m.keys.Close}}
	return frame.View() + "\n" + help.View()
}

func (m Model) settingsWindow() string {
	s := m.app.Settings

	frame := InfoFrame{
		Title:   "Settings",
		Focused: m.focused,
		Width:   m.width,
		Rows: []InfoRow{
			{Name: "Offline mode", Value: onOff(s.OfflineMode())},
			{Name: "Log level", Value: strconv.Itoa(s.LogLevel())},
			{Name: "Logging disabled", Value: onOff(s.DisableLogging())},
			{Name: "Tor proxy", Value: m.app.Tor.Address()},
			{Name: "Use local Tor", Value: onOff(m.app.Tor.UseLocal)},
			{Name: "Settings file", Value: m.app.Paths.ConfigFile},
			{Name: "Log file", Value: m.app.Paths.LogFile},
		},
	}

	help := HelpLabel{Bindings: []key.Binding{m.keys.Offline, m.keys.Close}}
	return frame.View() + "\n" + help.View()
}

func (m Model) aboutWindow() string {
	text := WrapLabel{
		Width: max(m.width-4, 0),
		Text: fmt.Sprintf(
			"%s %s\n\nA silent payments wallet. Wallet files, settings and logs stay on this machine.",
			config.AppName, config.Version,
		),
	}

	link := projectURL
	if m.app.Settings.WarnOnExternalLink() {
		link += "\n" + StyleWarning.Render("Opening this link in a browser may leave the Tor network.")
	}

	frame := InfoFrame{
		Title:   "About",
		Focused: m.focused,
		Width:   m.width,
		Rows: []InfoRow{
			{Name: "Network", Value: m.app.Network.String()},
			{Name: "Chain", Value: m.app.Network.ChainParams().Name},
			{Name: "Config", Value: m.app.Paths.ConfigDir},
			{Name: "Website", Value: link},
		},
	}

	return text.View() + "\n\n" + frame.View()
}

func (m Model) torSummary() string {
	tor := m.app.Tor
	parts := []string{tor.Address(), tor.Reason}
	if tor.SystemTor {
		parts = append(parts, "system")
	}
	return strings.Join(parts, " · ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
