package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Opener connects to one backend. dsn is a file path for SQLite and a URL for PostgreSQL.
type Opener func(ctx context.Context, dsn string) (Conn, error)

var (
	openersMu sync.RWMutex
	openers   = map[Driver]Opener{}
)

// Register makes a backend available to Open. The sqlite and postgres
// subpackages register themselves on import.
func Register(driver Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[driver] = open
}

// Open connects to the task store database.
func Open(ctx context.Context, driver Driver, dsn string) (Conn, error) {
	openersMu.RLock()
	open, ok := openers[driver]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", driver)
	}
	return open(ctx, dsn)
}

// DefaultSQLitePath is used when SQLITE_PATH is unset.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".taskrank", "tasks.db")
}
