package config

import (
	"path/filepath"

	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
	"github.com/setavenger/blindbit-desktop/pkg/utils"
)

const (
	// portable and Tails installs keep everything in one visible folder
	dataFolder = "blindbit_data"
	// before 0.2.0 the folder was hidden; still honoured if present
	legacyDataFolder = ".blindbit"

	PathEndingTor     = "tor"
	PathEndingTorData = "tor/data"
	PathEndingWallets = "wallets"
	PathEndingConfig  = "config"
	FileNameLog       = "libwallet.log"
	FileNameSettings  = "settings.toml"
)

// ResolvedPaths holds every directory and file location the application uses.
// All directories exist once ResolvePaths returns without error.
type ResolvedPaths struct {
	ConfigDir  string
	TorDir     string
	TorDataDir string
	WalletDir  string
	LogFile    string
	ConfigFile string

	// Created lists the directories that had to be made by this call.
	Created []string
	// Warnings carries non-fatal DirectoryErrors.
	Warnings []error
}

// ConfigDirectory returns the configuration directory for env without
// touching the filesystem.
func ConfigDirectory(env Environment) string {
	if env.PortableMarker() {
		return filepath.Join(env.ExecutableDir, dataFolder, PathEndingConfig)
	}
	if env.IsTails() {
		base := tailsBase(env)
		if utils.CheckIfDirExists(env.Fs, filepath.Join(base, legacyDataFolder)) {
			return filepath.Join(base, legacyDataFolder)
		}
		return filepath.Join(base, dataFolder, PathEndingConfig)
	}
	return filepath.Join(env.userConfigDir(), DirName)
}

// SettingsFile is where the persisted settings for env live.
func SettingsFile(env Environment) string {
	return filepath.Join(ConfigDirectory(env), FileNameSettings)
}

// DefaultWalletDirectory computes where wallets are stored when the user has
// not chosen a directory.
func DefaultWalletDirectory(env Environment) string {
	if env.PortableMarker() {
		return filepath.Join(env.ExecutableDir, dataFolder, PathEndingWallets)
	}

	if env.IsTails() {
		// A user might delete the hidden folder by accident after moving the
		// AppImage, so the old layout is only used while it still exists.
		base := tailsBase(env)
		if utils.CheckIfDirExists(env.Fs, filepath.Join(base, legacyDataFolder)) {
			return filepath.Join(base, legacyDataFolder, PathEndingWallets)
		}
		return filepath.Join(base, dataFolder, PathEndingWallets)
	}

	return filepath.Join(env.userDataDir(), DirName, PathEndingWallets)
}

func tailsBase(env Environment) string {
	if appImage := env.AppImagePath(); appImage != "" {
		abs, err := filepath.Abs(appImage)
		if err == nil {
			appImage = abs
		}
		return filepath.Dir(appImage)
	}
	logging.L.Debug().Msg("not an appimage, using working directory")
	return env.WorkingDir
}

// ResolvePaths computes and creates all application directories. A wallet
// directory that cannot be created is fatal, the others are only logged.
func ResolvePaths(env Environment, settings *Settings) (*ResolvedPaths, error) {
	configDir := ConfigDirectory(env)

	p := &ResolvedPaths{
		ConfigDir:  configDir,
		TorDir:     filepath.Join(configDir, PathEndingTor),
		TorDataDir: filepath.Join(configDir, filepath.FromSlash(PathEndingTorData)),
		LogFile:    filepath.Join(configDir, FileNameLog),
		ConfigFile: filepath.Join(configDir, FileNameSettings),
	}

	for _, dir := range []string{p.ConfigDir, p.TorDir, p.TorDataDir} {
		created, err := utils.TryCreateDirectory(env.Fs, dir)
		if err != nil {
			dirErr := &types.DirectoryError{Path: dir, Err: err}
			logging.L.Err(dirErr).Msg("could not create directory")
			p.Warnings = append(p.Warnings, dirErr)
			continue
		}
		if created {
			logging.L.Debug().Str("dir", dir).Msg("created directory")
			p.Created = append(p.Created, dir)
		}
	}

	walletDir := ""
	if settings != nil {
		walletDir = settings.WalletDirectory()
	}
	if walletDir == "" {
		walletDir = DefaultWalletDirectory(env)
		if settings != nil {
			settings.SetWalletDirectory(walletDir)
		}
	}

	resolved, err := utils.ResolvePath(walletDir, env.HomeDir)
	if err != nil {
		return nil, &types.InitializationError{
			Stage: "wallet directory",
			Err:   &types.DirectoryError{Path: walletDir, Err: err},
		}
	}
	p.WalletDir = resolved

	created, err := utils.TryCreateDirectory(env.Fs, p.WalletDir)
	if err != nil {
		dirErr := &types.DirectoryError{Path: p.WalletDir, Err: err}
		logging.L.Err(dirErr).Msg("unable to create wallet directory")
		return nil, &types.InitializationError{Stage: "wallet directory", Err: dirErr}
	}
	if created {
		logging.L.Debug().Str("dir", p.WalletDir).Msg("created directory")
		p.Created = append(p.Created, p.WalletDir)
	}

	return p, nil
}
