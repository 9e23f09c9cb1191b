package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"weather-cli/internal/models"
)

const snapshotTimeLayout = "20060102_150405"

// SnapshotRepository writes raw reports as pretty-printed JSON files.
type SnapshotRepository struct {
	Dir string
}

func NewSnapshotRepository(dir string) *SnapshotRepository {
	if dir == "" {
		dir = "."
	}
	return &SnapshotRepository{Dir: dir}
}

// SnapshotFileName returns weather_<name>_<YYYYMMDD_HHMMSS>.json.
func SnapshotFileName(name string, capturedAt time.Time) string {
	return fmt.Sprintf("weather_%s_%s.json", sanitizeName(name), capturedAt.Format(snapshotTimeLayout))
}

// Save writes report.Raw and returns the file path. The file is created
// exclusively, so two saves of one location within a second collide.
func (s *SnapshotRepository) Save(report models.Report, capturedAt time.Time) (string, error) {
	path := filepath.Join(s.Dir, SnapshotFileName(report.Name, capturedAt))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, report.Raw, "", "  "); err != nil {
		return "", models.PersistenceError(path, err)
	}
	pretty.WriteByte('\n')

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", models.PersistenceError(path, err)
	}
	if _, err := f.Write(pretty.Bytes()); err != nil {
		f.Close()
		os.Remove(path)
		return "", models.PersistenceError(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", models.PersistenceError(path, err)
	}

	return path, nil
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' || r == ':' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
}
