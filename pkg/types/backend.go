package types

import (
	"encoding/json"
	"errors"
)

// Backend indexes a load order from a data directory and serves it to a
// patch run. Callers attach, read the load order and link cache, persist
// the patch mod, and detach when done.
type Backend interface {
	// Attach loads the load order described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrBackendDetached.
	Detach() error

	// LoadOrder returns the load order read on Attach.
	LoadOrder() (LoadOrder, error)

	// LinkCache returns a resolver for winning records across the load order.
	LinkCache() (LinkCache, error)

	// WriteMod persists mod into dir as <ModKey>.jsonl, atomically.
	WriteMod(dir string, mod *Mod) error

	// SaveReport appends a run report to the data directory's report log.
	SaveReport(report json.Marshaler) error
}

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)
