package config

import (
	"net"
	"strconv"
)

// TorStatus is what the rest of the application needs to know about Tor:
// where the SOCKS endpoint is and whether a system instance is used.
type TorStatus struct {
	Host      string
	Port      int
	UseLocal  bool
	SystemTor bool
	Reason    string
}

// Address is the SOCKS5 endpoint as host:port.
func (t TorStatus) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ResolveTor combines the persisted settings (command line overrides already
// applied) with what the host tells us about existing Tor routing.
func ResolveTor(settings *Settings, env Environment) TorStatus {
	status := TorStatus{
		Host:     settings.TorHost(),
		Port:     settings.TorPort(),
		UseLocal: settings.TorUseLocal(),
	}
	if status.UseLocal {
		status.Reason = "use-local-tor"
	}

	switch {
	case env.IsTails():
		status.SystemTor, status.Reason = true, "tails"
	case env.IsWhonix():
		status.SystemTor, status.Reason = true, "whonix"
	case env.IsTorsocks():
		status.SystemTor, status.Reason = true, "torsocks"
	}
	if status.SystemTor {
		status.UseLocal = true
	}
	if status.Reason == "" {
		status.Reason = "bundled"
	}

	return status
}
