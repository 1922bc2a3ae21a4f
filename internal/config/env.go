package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/setavenger/blindbit-desktop/pkg/utils"
	"github.com/spf13/afero"
)

const (
	osReleasePath     = "/etc/os-release"
	whonixMarker      = "/usr/share/whonix/marker"
	whonixWorkstation = "/usr/share/anon-ws-base-files/workstation"
)

var portableMarkers = []string{".portable", ".portable.txt"}

// Environment bundles the host probes used while resolving paths and Tor
// settings. Every field can be swapped out in tests.
type Environment struct {
	Fs     afero.Fs
	Getenv func(string) string

	// ExecutableDir is the directory holding the running binary.
	ExecutableDir string
	WorkingDir    string
	HomeDir       string
	GOOS          string
}

// HostEnvironment returns the Environment of the running process.
func HostEnvironment() Environment {
	env := Environment{
		Fs:     afero.NewOsFs(),
		Getenv: os.Getenv,
		GOOS:   runtime.GOOS,
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		env.ExecutableDir = filepath.Dir(exe)
	}
	env.WorkingDir, _ = os.Getwd()
	env.HomeDir, _ = os.UserHomeDir()
	return env
}

// PortableMarker reports whether a portable marker file sits next to the
// executable.
func (e Environment) PortableMarker() bool {
	if e.ExecutableDir == "" {
		return false
	}
	for _, name := range portableMarkers {
		if utils.CheckIfFileExists(e.Fs, filepath.Join(e.ExecutableDir, name)) {
			return true
		}
	}
	return false
}

// AppImagePath is the path of the AppImage we were started from, if any.
func (e Environment) AppImagePath() string {
	return e.Getenv(EnvAppImage)
}

// ApplicationPath is the directory the user sees the application in: the
// AppImage's directory when packaged that way, otherwise the binary's.
func (e Environment) ApplicationPath() string {
	if appImage := e.AppImagePath(); appImage != "" {
		return filepath.Dir(appImage)
	}
	return e.ExecutableDir
}

// IsTails detects the Tails amnesic live system.
func (e Environment) IsTails() bool {
	if e.GOOS != "linux" {
		return false
	}
	data, err := afero.ReadFile(e.Fs, osReleasePath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "TAILS_PRODUCT_NAME=") {
			return true
		}
		if line == `ID="tails"` || line == "ID=tails" {
			return true
		}
	}
	return false
}

// IsWhonix detects a Whonix workstation.
func (e Environment) IsWhonix() bool {
	if e.GOOS != "linux" {
		return false
	}
	return utils.CheckIfFileExists(e.Fs, whonixMarker) ||
		utils.CheckIfFileExists(e.Fs, whonixWorkstation)
}

// IsTorsocks reports whether the process runs under torsocks.
func (e Environment) IsTorsocks() bool {
	switch e.GOOS {
	case "linux":
		return strings.Contains(e.Getenv(EnvLDPreload), "libtorsocks")
	case "darwin":
		return strings.Contains(e.Getenv(EnvDyldInsert), "libtorsocks")
	default:
		return false
	}
}

// AccountName is the system user name, used to scope the instance lock.
func (e Environment) AccountName() string {
	if name := e.Getenv(EnvUser); name != "" {
		return name
	}
	if name := e.Getenv(EnvUserWindows); name != "" {
		return name
	}
	return "default"
}

// RuntimeDir is where per-session sockets live.
func (e Environment) RuntimeDir() string {
	if dir := e.Getenv(EnvXDGRuntime); dir != "" {
		return dir
	}
	return os.TempDir()
}

func (e Environment) userConfigDir() string {
	switch e.GOOS {
	case "windows":
		if dir := e.Getenv(EnvAppData); dir != "" {
			return dir
		}
		return filepath.Join(e.HomeDir, "AppData", "Roaming")
	case "darwin":
		return filepath.Join(e.HomeDir, "Library", "Application Support")
	default:
		if dir := e.Getenv(EnvXDGConfig); dir != "" {
			return dir
		}
		return filepath.Join(e.HomeDir, ".config")
	}
}

func (e Environment) userDataDir() string {
	switch e.GOOS {
	case "windows":
		if dir := e.Getenv(EnvAppData); dir != "" {
			return dir
		}
		return filepath.Join(e.HomeDir, "AppData", "Roaming")
	case "darwin":
		return filepath.Join(e.HomeDir, "Library", "Application Support")
	default:
		if dir := e.Getenv(EnvXDGDataHome); dir != "" {
			return dir
		}
		return filepath.Join(e.HomeDir, ".local", "share")
	}
}
