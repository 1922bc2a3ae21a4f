// Package instance makes sure only one copy of the application
// runs per user. Later launches hand over to the running one.
package instance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/setavenger/blindbit-desktop/pkg/logging"
)

const (
	activateMessage = "ACTIVATE"
	dialTimeout     = time.Second
	readTimeout     = 2 * time.Second
)

type Role int

const (
	Primary Role = iota
	Secondary
)

func (r Role) String() string {
	if r == Primary {
		return "primary"
	}
	return "secondary"
}

type options struct {
	runtimeDir string
}

type Option func(*options)

// WithRuntimeDir places the socket in dir instead of the temp directory.
func WithRuntimeDir(dir string) Option {
	return func(o *options) {
		o.runtimeDir = dir
	}
}

type Instance struct {
	role Role
	path string

	listener net.Listener
	wg       sync.WaitGroup
	once     sync.Once
}

// SocketPath is the socket location for key inside runtimeDir.
func SocketPath(runtimeDir, key string) string {
	return filepath.Join(runtimeDir, key+".sock")
}

// Acquire claims the socket for key. Whoever binds it is the primary, anyone
// finding a live listener is a secondary. A socket nobody answers on is left
// over from a crash and gets replaced.
func Acquire(ctx context.Context, key string, opts ...Option) (*Instance, error) {
	o := options{runtimeDir: os.TempDir()}
	for _, opt := range opts {
		opt(&o)
	}
	if key == "" {
		return nil, errors.New("instance key must not be empty")
	}

	path := SocketPath(o.runtimeDir, key)

	for attempt := 0; attempt < 2; attempt++ {
		ln, err := listen(ctx, path)
		if err == nil {
			logging.L.Debug().Str("socket", path).Msg("acquired single instance lock")
			return &Instance{role: Primary, path: path, listener: ln}, nil
		}
		if !isAddrInUse(err) {
			return nil, fmt.Errorf("listen on %s: %w", path, err)
		}

		conn, dialErr := dial(ctx, path)
		if dialErr == nil {
			conn.Close()
			logging.L.Info().Str("socket", path).Msg("another instance is running")
			return &Instance{role: Secondary, path: path}, nil
		}

		logging.L.Warn().Err(dialErr).Str("socket", path).Msg("removing stale instance socket")
		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	return nil, fmt.Errorf("could not acquire instance socket %s", path)
}

func listen(ctx context.Context, path string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	// the socket file is removed in Close, not by the runtime
	if ul, ok := ln.(*net.UnixListener); ok {
		ul.SetUnlinkOnClose(false)
	}
	return ln, nil
}

func dial(ctx context.Context, path string) (net.Conn, error) {
	d := net.Dialer{Timeout: dialTimeout}
	return d.DialContext(ctx, "unix", path)
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

func (i *Instance) Role() Role {
	return i.role
}

func (i *Instance) IsPrimary() bool {
	return i.role == Primary
}

// Activate asks the primary to bring itself to the foreground.
func (i *Instance) Activate(ctx context.Context) error {
	if i.role != Secondary {
		return errors.New("only a secondary instance can activate")
	}

	conn, err := dial(ctx, i.path)
	if err != nil {
		return fmt.Errorf("connect to running instance: %w", err)
	}
	defer conn.Close()

	if _, err = fmt.Fprintf(conn, "%s\n", activateMessage); err != nil {
		return fmt.Errorf("send activation: %w", err)
	}
	return nil
}

// Serve handles activation requests in the background until Close is called.
// onActivate runs once per valid request.
func (i *Instance) Serve(onActivate func()) {
	if i.role != Primary {
		return
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		for {
			conn, err := i.listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.L.Err(err).Msg("instance socket accept failed")
				continue
			}
			i.handle(conn, onActivate)
		}
	}()
}

func (i *Instance) handle(conn net.Conn, onActivate func()) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(readTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		// probes from Acquire connect and hang up without a payload
		return
	}

	msg := strings.TrimSpace(line)
	if msg != activateMessage {
		logging.L.Warn().Str("message", msg).Msg("ignoring unknown instance message")
		return
	}

	logging.L.Debug().Msg("activation requested by second instance")
	if onActivate != nil {
		onActivate()
	}
}

// Close stops serving and removes the socket. Safe to call more than once.
func (i *Instance) Close() error {
	var err error
	i.once.Do(func() {
		if i.role != Primary {
			return
		}
		err = i.listener.Close()
		i.wg.Wait()
		if rmErr := os.Remove(i.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	})
	return err
}
