package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ResolvePath resolves a path, expanding ~ to the given home directory.
// An empty home falls back to the user's home directory.
func ResolvePath(path, home string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(home, path[1:]), nil
}

// CheckIfFileExists checks if a file (not a directory) exists
func CheckIfFileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

// CheckIfDirExists checks if a directory exists
func CheckIfDirExists(fs afero.Fs, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}

// TryCreateDirectory creates path and all parents if it does not exist yet.
// created reports whether anything had to be made.
func TryCreateDirectory(fs afero.Fs, path string) (created bool, err error) {
	info, err := fs.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, errors.New("path exists and is not a directory")
		}
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err = fs.MkdirAll(path, 0700); err != nil {
		return false, err
	}
	return true, nil
}
