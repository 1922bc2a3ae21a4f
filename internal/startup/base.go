package startup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/engine"
	"github.com/setavenger/blindbit-desktop/internal/instance"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
)

// InteractiveRunner runs a windowed session until the user quits. inst is
// nil when no single-instance lock could be taken.
type InteractiveRunner func(ctx context.Context, app *config.AppContext, eng backend.Engine, inst *instance.Instance) error

type options struct {
	env         *config.Environment
	newEngine   func(*config.AppContext) backend.Engine
	stdout      io.Writer
	stderr      io.Writer
	interactive InteractiveRunner
}

type Option func(*options)

func WithEnvironment(env config.Environment) Option {
	return func(o *options) {
		o.env = &env
	}
}

func WithEngine(fn func(*config.AppContext) backend.Engine) Option {
	return func(o *options) {
		o.newEngine = fn
	}
}

func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

func WithInteractiveRunner(fn InteractiveRunner) Option {
	return func(o *options) {
		o.interactive = fn
	}
}

// RunProgram is the whole launcher: it parses args, coordinates with other
// running instances, prepares directories and settings, starts the wallet
// engine and hands over to either a CLI batch operation or the interactive
// session. The return value is the process exit code.
func RunProgram(args []string, opts ...Option) int {
	o := options{
		newEngine:   func(app *config.AppContext) backend.Engine { return engine.New(app) },
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: runInteractive,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.env == nil {
		env := config.HostEnvironment()
		o.env = &env
	}
	env := *o.env

	launch, err := config.ParseArgs(args)
	switch {
	case errors.Is(err, config.ErrHelp):
		fmt.Fprint(o.stdout, config.Usage())
		return types.ExitCodeSuccess
	case errors.Is(err, config.ErrVersion):
		fmt.Fprintf(o.stdout, "%s %s\n", config.AppName, config.Version)
		return types.ExitCodeSuccess
	case err != nil:
		fmt.Fprintf(o.stderr, "error: %v\n\n%s", err, config.Usage())
		return types.ExitCode(err)
	}

	// until the engine takes over, logs only go to the console
	logging.SetOutput(o.stderr)
	if launch.Quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inst, err := acquireInstance(ctx, env)
	if err != nil {
		fmt.Fprintf(o.stderr, "error: %v\n", err)
		return types.ExitCodeError
	}
	if inst != nil && !inst.IsPrimary() {
		if err = inst.Activate(ctx); err != nil {
			logging.L.Err(err).Msg("could not reach the running instance")
			fmt.Fprintf(o.stderr, "error: %v\n", err)
			return types.ExitCodeError
		}
		logging.L.Info().Msg("handed over to the running instance")
		return types.ExitCodeSuccess
	}
	if inst != nil {
		defer inst.Close()
	}

	app, err := bootstrap(env, launch)
	if err != nil {
		logging.L.Err(err).Msg("startup failed")
		fmt.Fprintf(o.stderr, "error: %v\n", err)
		return types.ExitCode(err)
	}

	eng := o.newEngine(app)
	if closer, ok := eng.(io.Closer); ok {
		defer closer.Close()
	}

	if err = backend.NewInitializer(eng, env.Getenv).Init(app); err != nil {
		logging.L.Err(err).Msg("startup failed")
		fmt.Fprintf(o.stderr, "error: %v\n", err)
		return types.ExitCode(err)
	}

	if launch.CLIMode {
		return startupCLIMode(ctx, app, eng, inst, o.stdout, o.stderr)
	}

	if !launch.Quiet {
		printBanner(o.stdout, app)
	}
	return startupInteractiveMode(ctx, app, eng, inst, o.interactive, o.stderr)
}

// instanceKey names the lock shared by every launch of one account, whatever
// the network.
func instanceKey(env config.Environment) string {
	return config.DirName + "-" + env.AccountName()
}

// acquireInstance takes the per user lock. Failing to create the socket is
// not fatal, the session then simply runs without activation.
func acquireInstance(ctx context.Context, env config.Environment) (*instance.Instance, error) {
	inst, err := instance.Acquire(ctx, instanceKey(env), instance.WithRuntimeDir(env.RuntimeDir()))
	if err != nil {
		logging.L.Warn().Err(err).Msg("running without single instance lock")
		return nil, nil
	}
	return inst, nil
}

// bootstrap loads settings, resolves and creates directories, persists what
// the launch changed and freezes everything into an AppContext.
func bootstrap(env config.Environment, launch *config.LaunchConfig) (*config.AppContext, error) {
	settings := config.NewSettings(env.Fs)

	settingsOK := true
	if err := settings.Load(config.SettingsFile(env)); err != nil {
		// keep the broken file for the user to inspect, run on defaults
		logging.L.Warn().Err(err).Msg("ignoring unreadable settings")
		settingsOK = false
	}

	paths, err := config.ResolvePaths(env, settings)
	if err != nil {
		return nil, err
	}

	settings.ApplyTorOverrides(launch.Tor)
	if settingsOK {
		if err = settings.Save(paths.ConfigFile); err != nil {
			logging.L.Warn().Err(err).Msg("could not persist settings")
		}
	}

	app := config.NewAppContext(launch, paths, settings, env)
	logging.L.Debug().
		Str("wallets", app.Paths.WalletDir).
		Str("config", app.Paths.ConfigDir).
		Str("tor", app.Tor.Reason).
		Msg("environment resolved")

	return app, nil
}

func printBanner(w io.Writer, app *config.AppContext) {
	fmt.Fprintf(w, "%s %s\n", config.AppName, config.Version)
	fmt.Fprintf(w, "network: %s (chain %s)\n", app.Network, app.Network.ChainParams().Name)
	fmt.Fprintf(w, "tor:     %s (%s)\n", app.Tor.Address(), app.Tor.Reason)
}
