//go:build !windows

// Package trash moves directories to a recoverable deleted state
// following the freedesktop trash specification. Failures are
// per-directory and reported to the caller; nothing here is fatal.
package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Move puts the directory at path into the user's home trash,
// writing the .trashinfo record required for restore.
func Move(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}

	filesDir, infoDir, err := trashDirs()
	if err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}

	name := uniqueName(filesDir, infoDir, filepath.Base(abs))
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(abs), time.Now().Format("2006-01-02T15:04:05"))

	infoPath := filepath.Join(infoDir, name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}
	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("trash %s: %w", path, err)
	}
	return nil
}

func trashDirs() (filesDir, infoDir string, err error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	filesDir = filepath.Join(base, "Trash", "files")
	infoDir = filepath.Join(base, "Trash", "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return "", "", err
	}
	return filesDir, infoDir, nil
}

func uniqueName(filesDir, infoDir, base string) string {
	name := base
	for i := 1; ; i++ {
		_, errF := os.Lstat(filepath.Join(filesDir, name))
		_, errI := os.Lstat(filepath.Join(infoDir, name+".trashinfo"))
		if os.IsNotExist(errF) && os.IsNotExist(errI) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}

// escapePath percent-encodes the path for the .trashinfo record
// (stored as a URL path component with slashes kept).
func escapePath(p string) string {
	escaped := &url.URL{Path: p}
	return escaped.EscapedPath()
}
