package turso

import (
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// NewDB opens the local libsql database at path, creating it if needed.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
