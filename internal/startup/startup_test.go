package startup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/instance"
	"github.com/setavenger/blindbit-desktop/pkg/types"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu       sync.Mutex
	inits    int
	levels   []int
	wallet   *wallet.Wallet
	password string
	initErr  error
}

func (f *fakeEngine) Init(string, string, string, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeEngine) SetLogLevel(level int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = append(f.levels, level)
}

func (f *fakeEngine) IsPortOpen(string, int, time.Duration) bool { return false }

func (f *fakeEngine) OpenWallet(path, password string) (*wallet.Wallet, error) {
	if password != f.password {
		return nil, wallet.ErrInvalidPassword
	}
	return f.wallet, nil
}

func (f *fakeEngine) initCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inits
}

// testEnv is a linux host with an in-memory filesystem and a real runtime
// directory for the instance socket.
func testEnv(t *testing.T, fs afero.Fs) config.Environment {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets not exercised on windows")
	}
	runDir, err := os.MkdirTemp("", "bbd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(runDir) })

	vars := map[string]string{
		config.EnvUser:       "tester",
		config.EnvXDGRuntime: runDir,
	}
	return config.Environment{
		Fs:            fs,
		Getenv:        func(k string) string { return vars[k] },
		ExecutableDir: "/opt/blindbit",
		WorkingDir:    "/home/tester",
		HomeDir:       "/home/tester",
		GOOS:          "linux",
	}
}

func engineFactory(e *fakeEngine) Option {
	return WithEngine(func(*config.AppContext) backend.Engine { return e })
}

func TestRunProgramHelpAndVersion(t *testing.T) {
	var out bytes.Buffer
	code := RunProgram([]string{"--help"}, WithOutput(&out, &bytes.Buffer{}))
	assert.Equal(t, types.ExitCodeSuccess, code)
	assert.Contains(t, out.String(), "--stagenet")

	out.Reset()
	code = RunProgram([]string{"--version"}, WithOutput(&out, &bytes.Buffer{}))
	assert.Equal(t, types.ExitCodeSuccess, code)
	assert.Equal(t, config.AppName+" "+config.Version+"\n", out.String())
}

func TestRunProgramUsageError(t *testing.T) {
	eng := &fakeEngine{}
	var stderr bytes.Buffer
	code := RunProgram([]string{"--stagenet", "--testnet"},
		WithOutput(&bytes.Buffer{}, &stderr),
		engineFactory(eng),
	)
	assert.Equal(t, types.ExitCodeUsage, code)
	assert.Contains(t, stderr.String(), "mutually exclusive")
	assert.Zero(t, eng.initCount())
}

func TestRunProgramStagenetQuietInteractive(t *testing.T) {
	fs := afero.NewMemMapFs()
	eng := &fakeEngine{}

	var got *config.AppContext
	var gotInst *instance.Instance
	var stdout bytes.Buffer
	code := RunProgram([]string{"--stagenet", "--quiet"},
		WithEnvironment(testEnv(t, fs)),
		WithOutput(&stdout, &bytes.Buffer{}),
		engineFactory(eng),
		WithInteractiveRunner(func(_ context.Context, app *config.AppContext, _ backend.Engine, inst *instance.Instance) error {
			got, gotInst = app, inst
			return nil
		}),
	)

	require.Equal(t, types.ExitCodeSuccess, code)
	require.NotNil(t, got)
	assert.Equal(t, config.Stagenet, got.Network)
	assert.True(t, got.Launch.Quiet)
	assert.False(t, got.Launch.CLIMode)
	require.NotNil(t, gotInst)
	assert.True(t, gotInst.IsPrimary())

	assert.Equal(t, 1, eng.initCount())
	assert.Equal(t, []int{backend.LogLevelDisabled}, eng.levels)
	assert.Empty(t, stdout.String(), "no banner when quiet")

	// defaulted wallet directory is persisted
	settings := config.NewSettings(fs)
	require.NoError(t, settings.Load(got.Paths.ConfigFile))
	assert.Equal(t, got.Paths.WalletDir, settings.WalletDirectory())
}

func TestRunProgramExportContacts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.csv")
	eng := &fakeEngine{
		password: "x",
		wallet:   &wallet.Wallet{Contacts: []wallet.Contact{{Address: "sp1qqalice", Name: "Alice"}}},
	}

	var stdout bytes.Buffer
	code := RunProgram([]string{"--export-contacts", target, "--wallet-file", "/w.keys", "--password", "x"},
		WithEnvironment(testEnv(t, afero.NewMemMapFs())),
		WithOutput(&stdout, &bytes.Buffer{}),
		engineFactory(eng),
		WithInteractiveRunner(func(context.Context, *config.AppContext, backend.Engine, *instance.Instance) error {
			t.Fatal("no window may be constructed in cli mode")
			return nil
		}),
	)

	require.Equal(t, types.ExitCodeSuccess, code)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "address,name\nsp1qqalice,Alice\n", string(data))
	assert.Equal(t, "exported 1 contacts to "+target+"\n", stdout.String())
}

func TestRunProgramSubModeFailure(t *testing.T) {
	eng := &fakeEngine{password: "right"}
	var stderr bytes.Buffer
	code := RunProgram([]string{"--export-txhistory", filepath.Join(t.TempDir(), "h.csv"), "--wallet-file", "/w.keys", "--password", "wrong"},
		WithEnvironment(testEnv(t, afero.NewMemMapFs())),
		WithOutput(&bytes.Buffer{}, &stderr),
		engineFactory(eng),
	)
	assert.Equal(t, types.ExitCodeError, code)
	assert.Contains(t, stderr.String(), "invalid wallet password")
}

func TestRunProgramEngineFailure(t *testing.T) {
	eng := &fakeEngine{initErr: errors.New("boom")}
	ran := false
	code := RunProgram(nil,
		WithEnvironment(testEnv(t, afero.NewMemMapFs())),
		WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
		engineFactory(eng),
		WithInteractiveRunner(func(context.Context, *config.AppContext, backend.Engine, *instance.Instance) error {
			ran = true
			return nil
		}),
	)
	assert.Equal(t, types.ExitCodeError, code)
	assert.False(t, ran, "no ui after a failed init")
}

func TestRunProgramBanner(t *testing.T) {
	var stdout bytes.Buffer
	code := RunProgram([]string{"--testnet", "--tor-port", "9150"},
		WithEnvironment(testEnv(t, afero.NewMemMapFs())),
		WithOutput(&stdout, &bytes.Buffer{}),
		engineFactory(&fakeEngine{}),
		WithInteractiveRunner(func(context.Context, *config.AppContext, backend.Engine, *instance.Instance) error {
			return nil
		}),
	)
	require.Equal(t, types.ExitCodeSuccess, code)

	banner := stdout.String()
	assert.Contains(t, banner, config.AppName+" "+config.Version)
	assert.Contains(t, banner, "network: testnet (chain testnet3)")
	assert.Contains(t, banner, "tor:     127.0.0.1:9150 (bundled)")
}

func TestSecondaryLaunchRaisesPrimary(t *testing.T) {
	env := testEnv(t, afero.NewMemMapFs())

	var raised atomic.Int32
	ready := make(chan struct{})
	activated := make(chan struct{})
	primaryDone := make(chan int, 1)

	go func() {
		primaryDone <- RunProgram([]string{"--quiet"},
			WithEnvironment(env),
			WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
			engineFactory(&fakeEngine{}),
			WithInteractiveRunner(func(ctx context.Context, _ *config.AppContext, _ backend.Engine, inst *instance.Instance) error {
				var once sync.Once
				inst.Serve(func() {
					raised.Add(1)
					once.Do(func() { close(activated) })
				})
				close(ready)
				select {
				case <-activated:
				case <-time.After(5 * time.Second):
				}
				return nil
			}),
		)
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("primary did not start")
	}

	secondEngine := &fakeEngine{}
	code := RunProgram([]string{"--quiet"},
		WithEnvironment(env),
		WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
		engineFactory(secondEngine),
		WithInteractiveRunner(func(context.Context, *config.AppContext, backend.Engine, *instance.Instance) error {
			t.Fatal("secondary must not start a session")
			return nil
		}),
	)
	assert.Equal(t, types.ExitCodeSuccess, code)
	assert.Zero(t, secondEngine.initCount(), "secondary never initializes the engine")

	select {
	case code := <-primaryDone:
		assert.Equal(t, types.ExitCodeSuccess, code)
	case <-time.After(5 * time.Second):
		t.Fatal("primary did not finish")
	}
	assert.Equal(t, int32(1), raised.Load())
}

func TestInstanceKeyIgnoresNetwork(t *testing.T) {
	env := testEnv(t, afero.NewMemMapFs())
	assert.Equal(t, config.DirName+"-tester", instanceKey(env))
}

// holdPrimary takes the lock the way a running interactive session would and
// counts activations.
func holdPrimary(t *testing.T, env config.Environment) *atomic.Int32 {
	t.Helper()
	primary, err := instance.Acquire(context.Background(), config.DirName+"-tester", instance.WithRuntimeDir(env.RuntimeDir()))
	require.NoError(t, err)
	t.Cleanup(func() { primary.Close() })
	require.True(t, primary.IsPrimary())

	var raised atomic.Int32
	primary.Serve(func() { raised.Add(1) })
	return &raised
}

func TestCLILaunchHandsOverToRunningInstance(t *testing.T) {
	env := testEnv(t, afero.NewMemMapFs())
	raised := holdPrimary(t, env)

	target := filepath.Join(t.TempDir(), "c.csv")
	eng := &fakeEngine{password: "x", wallet: &wallet.Wallet{}}
	var stdout bytes.Buffer
	code := RunProgram([]string{"--export-contacts", target, "--wallet-file", "/w.keys", "--password", "x", "--quiet"},
		WithEnvironment(env),
		WithOutput(&stdout, &bytes.Buffer{}),
		engineFactory(eng),
	)
	assert.Equal(t, types.ExitCodeSuccess, code)
	assert.Zero(t, eng.initCount(), "a second launch never initializes the engine")
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, target)

	assert.Eventually(t, func() bool { return raised.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStagenetLaunchHandsOverToMainnetInstance(t *testing.T) {
	env := testEnv(t, afero.NewMemMapFs())
	raised := holdPrimary(t, env)

	eng := &fakeEngine{}
	code := RunProgram([]string{"--stagenet", "--quiet"},
		WithEnvironment(env),
		WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
		engineFactory(eng),
		WithInteractiveRunner(func(context.Context, *config.AppContext, backend.Engine, *instance.Instance) error {
			t.Fatal("a second session may not start on another network")
			return nil
		}),
	)
	assert.Equal(t, types.ExitCodeSuccess, code)
	assert.Zero(t, eng.initCount())

	assert.Eventually(t, func() bool { return raised.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
