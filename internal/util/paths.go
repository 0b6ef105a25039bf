package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	controlChars    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	reservedChars   = regexp.MustCompile(`[\\/:*?"<>|]`)
	repeatedDashes  = regexp.MustCompile(`-{2,}`)
	windowsReserved = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// SanitizeFolderName turns a series name into a single directory name that
// is valid on Windows, macOS and Linux. It returns "" when nothing usable
// is left.
func SanitizeFolderName(name string) string {
	safe := controlChars.ReplaceAllString(name, "")
	safe = reservedChars.ReplaceAllString(safe, "-")
	safe = repeatedDashes.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, " .-")
	if windowsReserved[strings.ToUpper(safe)] {
		safe += "_"
	}
	return safe
}

// EnsureWritableDir creates dir if needed and checks that files can be
// created inside it.
func EnsureWritableDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("folder path cannot be empty")
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	case err != nil:
		return fmt.Errorf("cannot access %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("path exists but is not a directory: %s", dir)
	}

	check, err := os.CreateTemp(dir, ".comic_write_check_*")
	if err != nil {
		return fmt.Errorf("no write permission for %s: %w", dir, err)
	}
	name := check.Name()
	check.Close()
	return os.Remove(name)
}
