package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// versionLayout is the goose timestamp prefix of every migration file.
const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", errors.New("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := time.Now().UTC().Format(versionLayout)
	taken, err := versionInUse(dir, version)
	if err != nil {
		return "", err
	}
	if taken != "" {
		return "", fmt.Errorf("version %s already used by %s", version, taken)
	}

	fullpath := filepath.Join(dir, version+"_"+slug+".sql")
	if err := os.WriteFile(fullpath, []byte(fmt.Sprintf(sqlTemplate, slug)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

// migrationSlug lowercases name and joins its alphanumeric runs with "_".
func migrationSlug(name string) string {
	slug := nameSanitizeRe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(slug, "_")
}

func versionInUse(dir, version string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, version+"_*.sql"))
	if err != nil {
		return "", fmt.Errorf("scan %q: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	return filepath.Base(matches[0]), nil
}
