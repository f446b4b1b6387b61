// Package migration carries state over from the directory older weathr
// releases used, $HOME/.config/weathr, when the configuration directory now
// resolves somewhere else.
package migration

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rshade/weathr/internal/fsys"
)

// migratedFiles are copied; the response cache is left behind and simply
// refills.
var migratedFiles = []string{"properties.json", "config.yaml"} //nolint:gochecknoglobals // fixed list

// LegacyDir returns the directory older releases used under home.
func LegacyDir(home string) string {
	return filepath.Join(home, ".config", "weathr")
}

// DetectLegacy reports whether legacy holds state that should be copied to
// target: legacy is an existing directory, target is a different path, and
// target does not exist yet.
func DetectLegacy(legacy, target string) bool {
	if legacy == "" || target == "" {
		return false
	}
	if filepath.Clean(legacy) == filepath.Clean(target) {
		return false
	}
	info, err := os.Stat(legacy)
	if err != nil || !info.IsDir() {
		return false
	}
	if _, err := os.Stat(target); err == nil {
		return false
	}
	return true
}

// SafeCopy copies the known state files from src to dst. The source is left
// untouched and files missing from it are skipped. It returns the names
// copied.
func SafeCopy(filesystem fsys.FS, src, dst string) ([]string, error) {
	var copied []string
	for _, name := range migratedFiles {
		data, err := filesystem.ReadFile(filepath.Join(src, name))
		if err != nil {
			if fsys.IsNotExist(err) {
				continue
			}
			return copied, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := filesystem.MkdirAll(dst); err != nil {
			return copied, fmt.Errorf("creating %s: %w", dst, err)
		}
		if err := filesystem.WriteFile(filepath.Join(dst, name), data); err != nil {
			return copied, fmt.Errorf("writing %s: %w", name, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}

// RunMigration copies legacy state into target when DetectLegacy allows it
// and reports what it did on out.
func RunMigration(out io.Writer, filesystem fsys.FS, legacy, target string) error {
	if !DetectLegacy(legacy, target) {
		return nil
	}

	copied, err := SafeCopy(filesystem, legacy, target)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(copied) == 0 {
		return nil
	}

	_, _ = fmt.Fprintf(out, "Copied %v from %s to %s. The old directory has been left in place.\n",
		copied, legacy, target)
	return nil
}
