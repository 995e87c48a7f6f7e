// Package sqlite provides the public API for the SQLite load-order backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/internal/sqlite"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger discards load diagnostics.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend:  types.BackendSQLite,
//	    DataDir:  "data",
//	    PatchMod: "Patch.esp",
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) types.Backend {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
