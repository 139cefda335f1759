// Package sqlite implements the standalone-document provider: a library of
// CAD documents read without a live session.
//
// documents.jsonl in the data directory is the source of truth, one document
// record per line. Attach rebuilds a fresh SQLite database from it and all
// reads go through SQLite. Values handed to callers are in resolved form.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

const (
	dbFileName        = "library.db"
	documentsFileName = "documents.jsonl"
)

// Backend is the document library.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
}

// NewBackend creates a detached backend. Call Attach before use. A nil logger
// uses slog.Default().
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Attach opens the library in config.DataDir, creating the directory and an
// empty documents.jsonl when missing, and loads every document into a fresh
// database. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	config.DataDir = dataDir

	// The database is a derived index; always rebuild it from JSONL.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := ensureJSONL(filepath.Join(dataDir, documentsFileName)); err != nil {
		db.Close()
		return err
	}

	n, err := loadDocuments(db, dataDir, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	b.logger.Debug("document library attached", "data_dir", dataDir, "documents", n)

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// readDB returns the database under a read lock. The caller must call the
// returned release function.
func (b *Backend) readDB() (*sql.DB, func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, nil, types.ErrDetached
	}
	return b.db, b.mu.RUnlock, nil
}

// generateUUID generates a new UUID v7 for row IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
