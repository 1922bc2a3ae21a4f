package config

import (
	"net"
	"strconv"
)

const defaultDaemonHost = "127.0.0.1"

// AppContext is built once during startup and handed to every component in
// place of package level state. Nothing in it changes after construction
// except Settings, which guards itself.
type AppContext struct {
	Launch   LaunchConfig
	Network  NetworkType
	Paths    ResolvedPaths
	Settings *Settings
	Tor      TorStatus
	Env      Environment
}

// NewAppContext freezes the launch intent and resolved environment. The
// network type is taken from the launch config and fixed from here on.
func NewAppContext(launch *LaunchConfig, paths *ResolvedPaths, settings *Settings, env Environment) *AppContext {
	return &AppContext{
		Launch:   *launch,
		Network:  launch.Network,
		Paths:    *paths,
		Settings: settings,
		Tor:      ResolveTor(settings, env),
		Env:      env,
	}
}

// DaemonAddress returns the daemon to connect to: command line, then the
// persisted setting, then localhost on the network's default RPC port.
func (c *AppContext) DaemonAddress() string {
	if c.Launch.DaemonAddress != "" {
		return c.Launch.DaemonAddress
	}
	if c.Settings != nil {
		if addr := c.Settings.DaemonAddress(); addr != "" {
			return addr
		}
	}
	return net.JoinHostPort(defaultDaemonHost, strconv.Itoa(c.Network.DefaultRPCPort()))
}
