package backend

import (
	"strconv"
	"strings"

	"github.com/setavenger/blindbit-desktop/internal/config"
)

// Log levels understood by the wallet engine.
const (
	LogLevelDisabled = -1
	LogLevelMin      = 0
	LogLevelMax      = 4
)

// LogLevelProvider yields a log level if it has an opinion.
type LogLevelProvider interface {
	LogLevel() (level int, ok bool)
}

// LogLevelProviderFunc adapts a function to LogLevelProvider.
type LogLevelProviderFunc func() (int, bool)

func (f LogLevelProviderFunc) LogLevel() (int, bool) { return f() }

// ResolveLogLevel asks the providers in order and returns the first answer.
// Without any answer the minimum level is used.
func ResolveLogLevel(providers ...LogLevelProvider) int {
	for _, p := range providers {
		if level, ok := p.LogLevel(); ok {
			return level
		}
	}
	return LogLevelMin
}

// QuietProvider disables logging when --quiet was given.
func QuietProvider(quiet bool) LogLevelProvider {
	return LogLevelProviderFunc(func() (int, bool) {
		if quiet {
			return LogLevelDisabled, true
		}
		return 0, false
	})
}

// DisableLoggingProvider disables logging when the persisted setting says so.
func DisableLoggingProvider(settings *config.Settings) LogLevelProvider {
	return LogLevelProviderFunc(func() (int, bool) {
		if settings != nil && settings.DisableLogging() {
			return LogLevelDisabled, true
		}
		return 0, false
	})
}

// EnvProvider reads an integer level from the environment. Values that do
// not parse or fall outside [LogLevelMin, LogLevelMax] are ignored.
func EnvProvider(getenv func(string) string, name string) LogLevelProvider {
	return LogLevelProviderFunc(func() (int, bool) {
		raw := strings.TrimSpace(getenv(name))
		if raw == "" {
			return 0, false
		}
		level, err := strconv.Atoi(raw)
		if err != nil || level < LogLevelMin || level > LogLevelMax {
			return 0, false
		}
		return level, true
	})
}

// PersistedProvider always answers with the stored level, clamped into range.
func PersistedProvider(settings *config.Settings) LogLevelProvider {
	return LogLevelProviderFunc(func() (int, bool) {
		if settings == nil {
			return LogLevelMin, true
		}
		return clamp(settings.LogLevel()), true
	})
}

// DefaultLogLevelChain is the startup precedence: quiet flag and the disable
// setting first, then the environment, then the persisted level.
func DefaultLogLevelChain(ctx *config.AppContext, getenv func(string) string) []LogLevelProvider {
	return []LogLevelProvider{
		QuietProvider(ctx.Launch.Quiet),
		DisableLoggingProvider(ctx.Settings),
		EnvProvider(getenv, config.EnvLogLevel),
		PersistedProvider(ctx.Settings),
	}
}

func clamp(level int) int {
	if level < LogLevelMin {
		return LogLevelMin
	}
	if level > LogLevelMax {
		return LogLevelMax
	}
	return level
}
