package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate runs every migration for driver in the given direction. Up
// migrations run in file name order, down migrations in reverse. It returns
// the number of files executed.
func Migrate(ctx context.Context, db *sql.DB, driver, direction string) (int, error) {
	if direction != MigrateUp && direction != MigrateDown {
		return 0, fmt.Errorf("direction must be %q or %q", MigrateUp, MigrateDown)
	}

	files, err := MigrationFiles(driver, direction)
	if err != nil {
		return 0, err
	}

	for _, file := range files {
		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return 0, fmt.Errorf("read migration file %s: %w", file, err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return 0, fmt.Errorf("execute migration %s: %w", path.Base(file), err)
		}
	}

	return len(files), nil
}

// MigrationFiles lists the embedded migration files for driver.
func MigrationFiles(driver, direction string) ([]string, error) {
	dir := path.Join("migrations", driver)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read migration directory for %s: %w", driver, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), fmt.Sprintf(".%s.sql", direction)) {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	if direction == MigrateDown {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}

	return files, nil
}
