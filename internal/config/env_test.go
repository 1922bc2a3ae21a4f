package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFs records directory creation so tests can assert on side effects.
type countingFs struct {
	afero.Fs
	mkdirs int
}

func (c *countingFs) Mkdir(name string, perm os.FileMode) error {
	c.mkdirs++
	return c.Fs.Mkdir(name, perm)
}

func (c *countingFs) MkdirAll(path string, perm os.FileMode) error {
	c.mkdirs++
	return c.Fs.MkdirAll(path, perm)
}

func testEnv(fs afero.Fs, vars map[string]string) Environment {
	return Environment{
		Fs:            fs,
		Getenv:        func(k string) string { return vars[k] },
		ExecutableDir: "/opt/blindbit",
		WorkingDir:    "/home/amnesia/Persistent",
		HomeDir:       "/home/user",
		GOOS:          "linux",
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestEnvironmentProbes(t *testing.T) {
	fs := afero.NewMemMapFs()
	env := testEnv(fs, map[string]string{})

	assert.False(t, env.PortableMarker())
	assert.False(t, env.IsTails())
	assert.False(t, env.IsWhonix())
	assert.False(t, env.IsTorsocks())

	writeFile(t, fs, "/opt/blindbit/.portable.txt", "")
	assert.True(t, env.PortableMarker())

	writeFile(t, fs, osReleasePath, "NAME=\"Tails\"\nID=\"tails\"\n")
	assert.True(t, env.IsTails())

	writeFile(t, fs, whonixMarker, "")
	assert.True(t, env.IsWhonix())

	env.Getenv = func(k string) string {
		if k == EnvLDPreload {
			return "/usr/lib/torsocks/libtorsocks.so"
		}
		return ""
	}
	assert.True(t, env.IsTorsocks())

	env.GOOS = "windows"
	assert.False(t, env.IsTails())
	assert.False(t, env.IsTorsocks())
}

func TestEnvironmentAccountAndRuntime(t *testing.T) {
	env := testEnv(afero.NewMemMapFs(), map[string]string{EnvUserWindows: "alice"})
	assert.Equal(t, "alice", env.AccountName())
	assert.Equal(t, os.TempDir(), env.RuntimeDir())

	env = testEnv(afero.NewMemMapFs(), map[string]string{EnvUser: "bob", EnvXDGRuntime: "/run/user/1000"})
	assert.Equal(t, "bob", env.AccountName())
	assert.Equal(t, "/run/user/1000", env.RuntimeDir())
}

func TestApplicationPath(t *testing.T) {
	env := testEnv(afero.NewMemMapFs(), map[string]string{})
	assert.Equal(t, "/opt/blindbit", env.ApplicationPath())

	env = testEnv(afero.NewMemMapFs(), map[string]string{EnvAppImage: "/media/usb/BlindBit.AppImage"})
	assert.Equal(t, "/media/usb", env.ApplicationPath())
}

func TestResolveTor(t *testing.T) {
	fs := afero.NewMemMapFs()
	env := testEnv(fs, map[string]string{})
	settings := NewSettings(fs)

	status := ResolveTor(settings, env)
	assert.Equal(t, "127.0.0.1:9050", status.Address())
	assert.False(t, status.UseLocal)
	assert.Equal(t, "bundled", status.Reason)

	settings.ApplyTorOverrides(TorOverride{Host: "10.1.1.1", HostSet: true, Port: 9150, PortSet: true, UseLocalTor: true})
	status = ResolveTor(settings, env)
	assert.Equal(t, "10.1.1.1:9150", status.Address())
	assert.True(t, status.UseLocal)
	assert.False(t, status.SystemTor)

	writeFile(t, fs, whonixWorkstation, "")
	status = ResolveTor(NewSettings(fs), env)
	assert.True(t, status.SystemTor)
	assert.True(t, status.UseLocal)
	assert.Equal(t, "whonix", status.Reason)
}
