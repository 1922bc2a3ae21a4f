package config

import "time"

const (
	// AppName is the display name, also handed to the wallet engine.
	AppName = "BlindBitDesktop"

	// DirName is the directory and lock name used for application data.
	DirName = "blindbit-desktop"
)

// Version is overwritten at build time via -ldflags.
var Version = "0.3.0"

// Env names read during startup. None of them is ever written.
const (
	EnvLogLevel    = "WALLET_LOG_LEVEL"
	EnvAppImage    = "APPIMAGE"
	EnvXDGRuntime  = "XDG_RUNTIME_DIR"
	EnvXDGDataHome = "XDG_DATA_HOME"
	EnvXDGConfig   = "XDG_CONFIG_HOME"
	EnvAppData     = "APPDATA"
	EnvLDPreload   = "LD_PRELOAD"
	EnvDyldInsert  = "DYLD_INSERT_LIBRARIES"
	EnvUser        = "USER"
	EnvUserWindows = "USERNAME"
)

var (
	// PortOpenTimeout bounds the connectivity probe against the daemon.
	PortOpenTimeout = 600 * time.Millisecond

	// RefreshInterval is how often the interactive session re-checks the daemon.
	RefreshInterval = 10 * time.Second
)
