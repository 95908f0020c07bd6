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

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir: the filename carries a real
// UTC timestamp version, versions are unique, both goose sections exist and
// StatementBegin/StatementEnd markers pair up.
func ValidateDir(dir string) error {
	if dir == "" {
		return errors.New("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		match := sqlFileRe.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := match[1]
		if _, err := time.Parse(versionLayout, version); err != nil {
			return fmt.Errorf("migration %q has an invalid timestamp version", name)
		}
		if prev, ok := versions[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		versions[version] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		if err := checkSections(name, string(body)); err != nil {
			return err
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}

func checkSections(name, body string) error {
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(body, marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}
	begins := strings.Count(body, "-- +goose StatementBegin")
	ends := strings.Count(body, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("migration %q has %d StatementBegin but %d StatementEnd", name, begins, ends)
	}
	return nil
}
