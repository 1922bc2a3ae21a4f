package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/daemon"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
)

type options struct {
	input     io.Reader
	inputSet  bool
	output    io.Writer
	altScreen bool
	clipboard func(string) error
}

type Option func(*options)

// WithInput reads keys from r. A nil reader disables input.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
		o.inputSet = true
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithoutAltScreen renders inline instead of taking over the terminal.
func WithoutAltScreen() Option {
	return func(o *options) {
		o.altScreen = false
	}
}

func WithClipboard(fn func(string) error) Option {
	return func(o *options) {
		o.clipboard = fn
	}
}

// WindowManager owns the event loop and the background worker of an
// interactive session.
type WindowManager struct {
	app     *config.AppContext
	program *tea.Program
	daemon  *daemon.Daemon
	final   Model
}

func NewWindowManager(app *config.AppContext, prober daemon.PortProber, opts ...Option) *WindowManager {
	o := options{altScreen: true}
	for _, opt := range opts {
		opt(&o)
	}

	wm := &WindowManager{app: app}
	wm.daemon = daemon.NewDaemon(app, prober, func(u daemon.StatusUpdate) {
		wm.program.Send(statusMsg(u))
	})

	wm.final = NewModel(app, wm.daemon.TriggerRefresh, o.clipboard)

	var teaOpts []tea.ProgramOption
	if o.altScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	if o.inputSet {
		teaOpts = append(teaOpts, tea.WithInput(o.input))
	}
	if o.output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(o.output))
	}
	wm.program = tea.NewProgram(wm.final, teaOpts...)

	return wm
}

// Raise brings the wallet window to the front. Safe to call from any
// goroutine; blocks until the event loop accepted the request or has ended.
func (wm *WindowManager) Raise() {
	wm.program.Send(raiseMsg{})
}

// Quit ends the event loop.
func (wm *WindowManager) Quit() {
	wm.program.Quit()
}

// Run blocks until the user quits or ctx is cancelled. The background worker
// is stopped and joined before Run returns.
func (wm *WindowManager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wm.daemon.Start(ctx)
	go func() {
		<-ctx.Done()
		wm.program.Quit()
	}()

	logging.L.Info().Str("network", wm.app.Network.String()).Msg("starting interactive session")
	final, err := wm.program.Run()

	cancel()
	wm.daemon.Stop()

	if m, ok := final.(Model); ok {
		wm.final = m
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	logging.L.Info().Msg("interactive session ended")
	return nil
}

// Model is the state the event loop ended with.
func (wm *WindowManager) Model() Model {
	return wm.final
}
