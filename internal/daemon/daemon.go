package daemon

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
)

// PortProber is the part of the wallet engine the daemon needs.
type PortProber interface {
	IsPortOpen(host string, port int, timeout time.Duration) bool
}

// StatusUpdate is sent after every connectivity check.
type StatusUpdate struct {
	Address   string
	Connected bool
	// Lost is set on the check that first fails after a successful one.
	Lost      bool
	Offline   bool
	CheckedAt time.Time
}

type Daemon struct {
	ShutdownChan       chan struct{}
	TriggerRefreshChan chan struct{}

	app      *config.AppContext
	prober   PortProber
	onUpdate func(StatusUpdate)
	interval time.Duration
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	last *StatusUpdate
}

func NewDaemon(app *config.AppContext, prober PortProber, onUpdate func(StatusUpdate)) *Daemon {
	return &Daemon{
		ShutdownChan:       make(chan struct{}),
		TriggerRefreshChan: make(chan struct{}, 1),
		app:                app,
		prober:             prober,
		onUpdate:           onUpdate,
		interval:           config.RefreshInterval,
		timeout:            config.PortOpenTimeout,
	}
}

// SetInterval changes the refresh period. Only effective before Start.
func (d *Daemon) SetInterval(interval time.Duration) {
	d.interval = interval
}

// Start launches the refresh loop. ShutdownChan closes once it has returned.
func (d *Daemon) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(d.ShutdownChan)
		d.continuousRefresh()
	}()
}

// Stop cancels the loop and waits for it to return.
func (d *Daemon) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
}

// TriggerRefresh requests a check outside the regular interval.
func (d *Daemon) TriggerRefresh() {
	select {
	case d.TriggerRefreshChan <- struct{}{}:
	default:
		// one is already pending
	}
}

// Last returns the most recent status, nil before the first check.
func (d *Daemon) Last() *StatusUpdate {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	s := *d.last
	return &s
}

func (d *Daemon) continuousRefresh() {
	logging.L.Info().Str("daemon", d.app.DaemonAddress()).Msg("starting connectivity refresh")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	t1 := make(chan struct{}, 1)
	t1 <- struct{}{}

	for {
		select {
		case <-d.ctx.Done():
			logging.L.Info().Msg("stopped connectivity refresh")
			return
		case <-t1:
			// initial check right after start
			d.refresh()
		case <-d.TriggerRefreshChan:
			d.refresh()
		case <-ticker.C:
			d.refresh()
		}
	}
}

func (d *Daemon) refresh() {
	addr := d.app.DaemonAddress()
	update := StatusUpdate{Address: addr, CheckedAt: time.Now()}

	if d.app.Settings != nil && d.app.Settings.OfflineMode() {
		update.Offline = true
	} else {
		update.Connected = d.probe(addr)
	}

	d.mu.Lock()
	if d.last != nil && d.last.Connected && !update.Connected && !update.Offline {
		update.Lost = true
		logging.L.Warn().Str("daemon", addr).Msg("lost connection to daemon")
	}
	d.last = &update
	d.mu.Unlock()

	logging.L.Debug().
		Str("daemon", addr).
		Bool("connected", update.Connected).
		Bool("offline", update.Offline).
		Msg("connectivity checked")

	if d.onUpdate != nil {
		d.onUpdate(update)
	}
}

func (d *Daemon) probe(addr string) bool {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		logging.L.Err(err).Str("daemon", addr).Msg("invalid daemon address")
		return false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		logging.L.Err(err).Str("daemon", addr).Msg("invalid daemon port")
		return false
	}
	return d.prober.IsPortOpen(host, port, d.timeout)
}
