// Package engine is the local stand-in for the wallet library: it owns the
// engine log sink, the connectivity probe and reading wallet files.
package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
	"golang.org/x/net/proxy"
)

type Engine struct {
	ctx *config.AppContext

	mu      sync.Mutex
	logFile *os.File
	console io.Writer
}

func New(ctx *config.AppContext) *Engine {
	return &Engine{ctx: ctx, console: os.Stdout}
}

func (e *Engine) Init(networkLogPath, appName, logPath string, logToConsole bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.logFile != nil {
		return fmt.Errorf("engine already initialised")
	}

	if networkLogPath == "" {
		networkLogPath = logPath
	}

	f, err := os.OpenFile(networkLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	e.logFile = f

	var console io.Writer
	if logToConsole {
		console = e.console
	}
	logging.SetOutput(console, f)
	logging.L = logging.L.With().Str("app", appName).Logger()

	logging.L.Info().Str("network", e.ctx.Network.String()).Msg("wallet engine started")
	return nil
}

// SetLogLevel maps engine levels onto zerolog. -1 silences everything.
func (e *Engine) SetLogLevel(level int) {
	zerolog.SetGlobalLevel(zerologLevel(level))
}

func zerologLevel(level int) zerolog.Level {
	switch {
	case level < 0:
		return zerolog.Disabled
	case level == 0:
		return zerolog.WarnLevel
	case level == 1:
		return zerolog.InfoLevel
	case level == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// IsPortOpen tries a TCP connection to host:port. In offline mode it never
// dials. With Tor in use the connection goes through the SOCKS proxy.
func (e *Engine) IsPortOpen(host string, port int, timeout time.Duration) bool {
	if e.ctx.Settings != nil && e.ctx.Settings.OfflineMode() {
		return false
	}
	if timeout <= 0 {
		timeout = config.PortOpenTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := e.dialer(timeout).DialContext(ctx, "tcp", addr)
	if err != nil {
		logging.L.Debug().Err(err).Str("addr", addr).Msg("port not reachable")
		return false
	}
	conn.Close()
	return true
}

func (e *Engine) dialer(timeout time.Duration) proxy.ContextDialer {
	direct := &net.Dialer{Timeout: timeout}
	if !e.ctx.Tor.UseLocal || e.ctx.Tor.SystemTor {
		// system Tor routes transparently, nothing to wrap
		return direct
	}

	socks, err := proxy.SOCKS5("tcp", e.ctx.Tor.Address(), nil, direct)
	if err != nil {
		logging.L.Warn().Err(err).Msg("could not set up tor proxy, dialing directly")
		return direct
	}
	if cd, ok := socks.(proxy.ContextDialer); ok {
		return cd
	}
	return direct
}

func (e *Engine) OpenWallet(path, password string) (*wallet.Wallet, error) {
	w, err := wallet.Open(path, password)
	if err != nil {
		return nil, err
	}
	if w.Network != "" && w.Network != e.ctx.Network.String() {
		return nil, fmt.Errorf("wallet %s belongs to %s, running on %s", path, w.Network, e.ctx.Network)
	}
	return w, nil
}

// Close releases the log file.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.logFile == nil {
		return nil
	}
	err := e.logFile.Close()
	e.logFile = nil
	return err
}
