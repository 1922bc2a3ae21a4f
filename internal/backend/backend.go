package backend

import (
	"errors"
	"sync"
	"time"

	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
)

// Engine is the wallet library as seen from the launcher.
type Engine interface {
	// Init starts the engine's runtime and log sink. An empty networkLogPath
	// shares logPath.
	Init(networkLogPath, appName, logPath string, logToConsole bool) error
	SetLogLevel(level int)
	IsPortOpen(host string, port int, timeout time.Duration) bool
	OpenWallet(path, password string) (*wallet.Wallet, error)
}

// Initializer starts the engine exactly once per process.
type Initializer struct {
	engine Engine
	getenv func(string) string

	once  sync.Once
	err   error
	level int
}

func NewInitializer(engine Engine, getenv func(string) string) *Initializer {
	return &Initializer{engine: engine, getenv: getenv}
}

// Init brings up the engine for ctx and applies the log level policy. Later
// calls return the outcome of the first one without touching the engine.
func (i *Initializer) Init(ctx *config.AppContext) error {
	i.once.Do(func() {
		i.err = i.init(ctx)
	})
	return i.err
}

// LogLevel is the level applied by Init.
func (i *Initializer) LogLevel() int {
	return i.level
}

func (i *Initializer) init(ctx *config.AppContext) error {
	if ctx == nil || ctx.Paths.LogFile == "" {
		return &types.InitializationError{Stage: "backend", Err: errors.New("paths not resolved")}
	}

	logging.L.Debug().
		Str("network", ctx.Network.String()).
		Str("log", ctx.Paths.LogFile).
		Msg("starting wallet engine")

	if err := i.engine.Init("", config.AppName, ctx.Paths.LogFile, !ctx.Launch.Quiet); err != nil {
		return &types.InitializationError{Stage: "backend", Err: err}
	}

	i.level = ResolveLogLevel(DefaultLogLevelChain(ctx, i.getenv)...)
	if i.level == LogLevelDisabled {
		logging.L.Warn().Msg("logging is disabled")
	}
	i.engine.SetLogLevel(i.level)

	return nil
}
