// Package sqlitepath finds the kiosk SQLite database for commands that read
// chat logs when no storage is configured.
package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolveSQLitePath returns override when set, then KIOSK_SQLITE, then the
// first existing well-known database file.
func ResolveSQLitePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("KIOSK_SQLITE")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find kiosk SQLite database; pass --sqlite or --postgres")
}

func sqliteCandidates() []string {
	candidates := []string{
		"kiosk.sqlite",
		"kiosk.db",
		filepath.Join(".kiosk", "kiosk.sqlite"),
		filepath.Join(".kiosk", "kiosk.db"),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".kiosk", "kiosk.sqlite"),
			filepath.Join(home, ".kiosk", "kiosk.db"),
		)
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append(candidates,
			filepath.Join(xdgHome, "kiosk", "kiosk.sqlite"),
		)
	}

	return candidates
}
