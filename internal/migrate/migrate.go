// Package migrate applies the embedded SQL migrations.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/rightcount/migrations"
)

// Migration is a single versioned migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// CurrentVersion returns the applied migration version and dirty state.
func CurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

func setVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	_, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`)
	if err != nil {
		return err
	}

	if version > 0 {
		_, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	}
	return err
}

// Load reads all embedded migration files, sorted by version.
func Load() ([]Migration, error) {
	var result []Migration

	upPattern := regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

	err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// Down migration is optional.
		downPath := fmt.Sprintf("%03d_%s.down.sql", version, name)
		downSQL, err := fs.ReadFile(migrations.FS, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// Run executes a single migration in the given direction, tracking the dirty
// flag around it.
func Run(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	direction := "up"
	sqlContent := m.UpSQL
	targetVersion := m.Version
	if !up {
		direction = "down"
		sqlContent = m.DownSQL
		targetVersion = m.Version - 1
	}

	fmt.Printf("  %s %d_%s...\n", direction, m.Version, m.Name)

	if err := setVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	// Split by semicolon; fine for these migrations, none embed one in a
	// string literal.
	for _, stmt := range strings.Split(sqlContent, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", m.Version, direction, err, stmt)
		}
	}

	if err := setVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}

	return nil
}

// To migrates from currentVersion to targetVersion, up or down as needed.
func To(ctx context.Context, db *sql.DB, all []Migration, currentVersion, targetVersion int) error {
	if targetVersion > currentVersion {
		for _, m := range all {
			if m.Version <= currentVersion || m.Version > targetVersion {
				continue
			}
			if err := Run(ctx, db, m, true); err != nil {
				return err
			}
		}
		return nil
	}

	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > currentVersion || m.Version <= targetVersion {
			continue
		}
		if m.DownSQL == "" {
			return fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := Run(ctx, db, m, false); err != nil {
			return err
		}
	}
	return nil
}

// RunAll runs all pending up migrations on the provided database.
func RunAll(ctx context.Context, db *sql.DB) error {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	all, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}

		if err := Run(ctx, db, m, true); err != nil {
			return err
		}
	}

	return nil
}
