package config

import (
	"fmt"
	"sync"

	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Setting keys of the persisted store.
const (
	KeyLogLevel           = "log_level"
	KeyDisableLogging     = "disable_logging"
	KeyWalletDirectory    = "wallet_directory"
	KeyTorHost            = "tor.host"
	KeyTorPort            = "tor.port"
	KeyTorUseLocal        = "tor.use_local"
	KeyOfflineMode        = "offline_mode"
	KeyWarnOnExternalLink = "warn_on_external_link"
	KeyDaemonAddress      = "daemon_address"
)

// Settings is the persisted key-value configuration. One instance is created
// during startup and handed to every component that needs it.
//
// Reads go through v, which overlays the environment. Save writes stored,
// which only ever holds defaults, file contents and explicit changes.
type Settings struct {
	mu     sync.RWMutex
	v      *viper.Viper
	stored *viper.Viper
	fs     afero.Fs
	path   string
}

// NewSettings returns a store with all defaults applied.
func NewSettings(fs afero.Fs) *Settings {
	v := newStore(fs)

	// map ENV var names
	v.BindEnv(KeyDisableLogging, "DISABLE_LOGGING")
	v.BindEnv(KeyOfflineMode, "OFFLINE_MODE")

	return &Settings{v: v, stored: newStore(fs), fs: fs}
}

func newStore(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("toml")

	/* set defaults */
	v.SetDefault(KeyLogLevel, 0)
	v.SetDefault(KeyDisableLogging, false)
	v.SetDefault(KeyWalletDirectory, "")

	// tor
	v.SetDefault(KeyTorHost, "127.0.0.1")
	v.SetDefault(KeyTorPort, 9050)
	v.SetDefault(KeyTorUseLocal, false)

	v.SetDefault(KeyOfflineMode, false)
	v.SetDefault(KeyWarnOnExternalLink, true)
	v.SetDefault(KeyDaemonAddress, "")
	return v
}

// Load reads the settings file at path. A missing file leaves the defaults in
// place and is not an error.
func (s *Settings) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = path
	s.v.SetConfigFile(path)
	s.stored.SetConfigFile(path)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("stat settings: %w", err)
	}
	if !exists {
		logging.L.Debug().Str("path", path).Msg("no settings file, using defaults")
		return nil
	}

	logging.L.Debug().Str("path", path).Msg("loading settings")
	if err = s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err = s.stored.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	return nil
}

// Save writes the settings back to the file given to Load, or to path if one
// is passed. Values that only come from the environment are not written.
func (s *Settings) Save(path ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path
	if len(path) > 0 && path[0] != "" {
		target = path[0]
		s.path = target
	}
	if target == "" {
		return fmt.Errorf("save settings: no path set")
	}

	if err := s.stored.WriteConfigAs(target); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *Settings) getInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(key)
}

func (s *Settings) getBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

func (s *Settings) getString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(key)
}

func (s *Settings) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	s.stored.Set(key, value)
}

func (s *Settings) LogLevel() int {
	return s.getInt(KeyLogLevel)
}

func (s *Settings) SetLogLevel(level int) {
	s.set(KeyLogLevel, level)
}

func (s *Settings) DisableLogging() bool {
	return s.getBool(KeyDisableLogging)
}

func (s *Settings) SetDisableLogging(b bool) {
	s.set(KeyDisableLogging, b)
}

func (s *Settings) WalletDirectory() string {
	return s.getString(KeyWalletDirectory)
}

func (s *Settings) SetWalletDirectory(d string) {
	s.set(KeyWalletDirectory, d)
}

func (s *Settings) TorHost() string {
	return s.getString(KeyTorHost)
}

func (s *Settings) TorPort() int {
	return s.getInt(KeyTorPort)
}

func (s *Settings) TorUseLocal() bool {
	return s.getBool(KeyTorUseLocal)
}

func (s *Settings) OfflineMode() bool {
	return s.getBool(KeyOfflineMode)
}

func (s *Settings) SetOfflineMode(b bool) {
	s.set(KeyOfflineMode, b)
}

func (s *Settings) WarnOnExternalLink() bool {
	return s.getBool(KeyWarnOnExternalLink)
}

func (s *Settings) DaemonAddress() string {
	return s.getString(KeyDaemonAddress)
}

// ApplyTorOverrides persists the Tor options given on the command line.
func (s *Settings) ApplyTorOverrides(o TorOverride) {
	if o.HostSet {
		s.set(KeyTorHost, o.Host)
	}
	if o.PortSet {
		s.set(KeyTorPort, o.Port)
	}
	if o.UseLocalTor {
		s.set(KeyTorUseLocal, true)
	}
}
