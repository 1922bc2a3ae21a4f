package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Labeled is anything that shows a text label.
type Labeled interface {
	Label() string
}

// Clickable is anything that does something when activated.
type Clickable interface {
	Click() tea.Cmd
}

// StatusBarButton is a labeled action in the status bar, triggered by its key.
type StatusBarButton struct {
	Key    key.Binding
	Text   string
	Action func() tea.Msg
}

func (b StatusBarButton) Label() string {
	return b.Text
}

func (b StatusBarButton) Click() tea.Cmd {
	if b.Action == nil {
		return nil
	}
	return b.Action
}

func (b StatusBarButton) View() string {
	return StyleKey.Render(b.Key.Help().Key) + " " + StyleKeyDesc.Render(b.Text)
}

// DoubleStateLabel shows one of two texts depending on its mode, e.g. a
// connection indicator.
type DoubleStateLabel struct {
	On, Off           string
	OnStyle, OffStyle lipgloss.Style
	state             bool
}

func NewDoubleStateLabel(on, off string) DoubleStateLabel {
	return DoubleStateLabel{
		On:       on,
		Off:      off,
		OnStyle:  StyleSuccess,
		OffStyle: StyleError,
	}
}

// SetMode switches between the two states.
func (l *DoubleStateLabel) SetMode(on bool) {
	l.state = on
}

func (l DoubleStateLabel) Mode() bool {
	return l.state
}

func (l DoubleStateLabel) Label() string {
	if l.state {
		return l.On
	}
	return l.Off
}

func (l DoubleStateLabel) View() string {
	if l.state {
		return l.OnStyle.Render("● " + l.On)
	}
	return l.OffStyle.Render("○ " + l.Off)
}

// WrapLabel is a block of text wrapped to Width.
type WrapLabel struct {
	Text  string
	Width int
}

func (l WrapLabel) Label() string {
	return l.Text
}

func (l WrapLabel) View() string {
	if l.Width <= 0 {
		return l.Text
	}
	return lipgloss.NewStyle().Width(l.Width).Render(l.Text)
}

// HelpLabel lists key bindings on one line.
type HelpLabel struct {
	Bindings []key.Binding
}

func (l HelpLabel) Label() string {
	parts := make([]string, 0, len(l.Bindings))
	for _, b := range l.Bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (l HelpLabel) View() string {
	parts := make([]string, 0, len(l.Bindings))
	for _, b := range l.Bindings {
		h := b.Help()
		parts = append(parts, StyleKey.Render(h.Key)+" "+StyleKeyDesc.Render(h.Desc))
	}
	return strings.Join(parts, StyleSubtle.Render(" • "))
}

// InfoRow is one key/value line of an InfoFrame.
type InfoRow struct {
	Name  string
	Value string
}

// InfoFrame is a titled, bordered table of facts.
type InfoFrame struct {
	Title   string
	Rows    []InfoRow
	Focused bool
	Width   int
}

func (f InfoFrame) Label() string {
	return f.Title
}

func (f InfoFrame) View() string {
	nameWidth := 0
	for _, r := range f.Rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(f.Title))
	b.WriteString("\n")
	for i, r := range f.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		name := StyleSubtle.Render(r.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(r.Name)))
		b.WriteString(name + "  " + r.Value)
	}

	style := StyleBorder
	if f.Focused {
		style = StyleFocusedBorder
	}
	if f.Width > 4 {
		style = style.Width(f.Width - 2)
	}
	return style.Render(b.String())
}
