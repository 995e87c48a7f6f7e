// Package sqlite implements the SQLite load-order index.
//
// The data directory holds plugins.txt and one <ModKey>.jsonl file per mod.
// JSONL files are the source of truth; the SQLite database is rebuilt from
// them on every Attach and answers winning-record lookups.
package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Backend implements types.Backend using SQLite as the query engine and
// JSONL files as the source of truth.
type Backend struct {
	mu        sync.RWMutex
	attached  bool
	config    types.Config
	db        *sql.DB
	loadOrder types.LoadOrder
	logger    *zap.Logger
}

var _ types.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach reads the load order from config.DataDir, creates a fresh index
// database and loads every listed mod except the patch mod.
// Returns ErrAlreadyAttached if already attached.
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

	entries, err := readPluginsTxt(filepath.Join(dataDir, loadOrderFile))
	if err != nil {
		return fmt.Errorf("read load order: %w", err)
	}
	if !config.PatchMod.IsNull() {
		kept := entries[:0]
		for _, e := range entries {
			if !e.key.Equal(config.PatchMod) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	// Remove existing database file to ensure a fresh index.
	dbPath := filepath.Join(dataDir, indexDB)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	lo, err := loadMods(db, dataDir, entries, b.logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("load mods: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.loadOrder = lo
	b.attached = true

	b.logger.Debug("indexed load order",
		zap.String("data_dir", dataDir),
		zap.Int("mods", len(lo.Listings)),
		zap.Int("enabled", len(lo.EnabledMods())),
	)
	return nil
}

// Detach closes the index. Detach is idempotent.
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
	b.loadOrder = types.LoadOrder{}
	return nil
}

// LoadOrder returns the load order read on Attach.
func (b *Backend) LoadOrder() (types.LoadOrder, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.LoadOrder{}, types.ErrBackendDetached
	}
	return b.loadOrder, nil
}

// LinkCache returns a resolver backed by the index.
func (b *Backend) LinkCache() (types.LinkCache, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return &linkCache{backend: b}, nil
}

// WriteMod persists mod into dir as <ModKey>.jsonl.
func (b *Backend) WriteMod(dir string, mod *types.Mod) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	if err := validateModKey(mod.ModKey); err != nil {
		return err
	}
	records, err := encodeMod(mod)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeJSONL(modPath(dir, mod.ModKey), records)
}

// SaveReport appends report to reports.jsonl in the data directory.
func (b *Backend) SaveReport(report json.Marshaler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}

	data, err := report.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	var line bytes.Buffer
	if err := json.Compact(&line, data); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return appendJSONL(filepath.Join(b.config.DataDir, reportsJSONL), line.Bytes())
}

// linkCache resolves winning records through the index.
type linkCache struct {
	backend *Backend
}

// Lookup implements types.LinkCache.
func (c *linkCache) Lookup(key types.FormKey) (types.Record, types.ModKey, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()

	if !c.backend.attached {
		return nil, "", types.ErrBackendDetached
	}

	var modKey, data string
	err := c.backend.db.QueryRow(lookupWinning, key.String()).Scan(&modKey, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", types.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup %s: %w", key, err)
	}

	rec, err := types.UnmarshalRecord([]byte(data))
	if err != nil {
		return nil, "", err
	}
	return rec, types.ModKey(modKey), nil
}
