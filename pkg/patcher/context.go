package patcher

import "github.com/mesh-intelligence/loadpatch/pkg/types"

// ForwardRecordContext pairs a source-layer record with the context of its
// winning version.
type ForwardRecordContext[T types.Overridable[T]] struct {
	Source  T
	Winning types.ModContext[T]
}

// WithContext pairs source with its winning context.
func WithContext[T types.Overridable[T]](source T, winning types.ModContext[T]) ForwardRecordContext[T] {
	return ForwardRecordContext[T]{Source: source, Winning: winning}
}

// PatchingData pairs a winning context with the payload that patches it.
type PatchingData[T types.Overridable[T], V any] struct {
	Context types.ModContext[T]
	Value   V
}

// WithPatchingData pairs ctx with value.
func WithPatchingData[T types.Overridable[T], V any](ctx types.ModContext[T], value V) PatchingData[T, V] {
	return PatchingData[T, V]{Context: ctx, Value: value}
}
