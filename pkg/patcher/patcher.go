// Package patcher defines the patcher archetypes run by the pipeline.
//
// Every archetype shares Patch. Forward patchers compare a source-layer
// record with the current winning record; transform patchers compute new
// data from the winning record alone, optionally deciding afterwards whether
// the result is worth an override. Patchers hold only their own immutable
// configuration: which records were already processed is the pipeline's
// bookkeeping, never theirs.
package patcher

import "github.com/mesh-intelligence/loadpatch/pkg/types"

// Unit identifies a sub-record element that received data during a patch,
// such as a quest alias.
type Unit struct {
	ID   uint32 `json:"id"`
	Name string `json:"name,omitempty"`
}

// Patcher is the root of all archetypes.
type Patcher[T types.Overridable[T], V any] interface {
	// Patch applies value to target, mutating only target, and returns the
	// units it touched in the order it touched them.
	Patch(target T, value V) ([]Unit, error)
}

// Forward propagates data present in a lower layer but missing from the
// winning layer.
type Forward[T types.Overridable[T], V any] interface {
	Patcher[T, V]

	// Analyze compares source with target and returns the minimal payload
	// needed to patch target. It must not mutate either record.
	Analyze(source, target T) (V, error)

	// ShouldPatch reports whether value calls for an override.
	ShouldPatch(value V) bool
}

// Transform computes new data from the winning record itself.
type Transform[T types.Overridable[T], V any] interface {
	Patcher[T, V]

	// Filter excludes records before any work is done on them.
	Filter(record T) bool

	// Apply computes the payload for a record that passed Filter.
	Apply(record T) (V, error)
}

// ConditionalTransform is a Transform whose decision to patch can only be
// made after the payload is computed.
type ConditionalTransform[T types.Overridable[T], V any] interface {
	Transform[T, V]

	// ShouldPatch reports whether value calls for an override.
	ShouldPatch(value V) bool
}
