package pipeline

import (
	"fmt"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Transform runs transform patchers over winning contexts.
type Transform[T types.Overridable[T], V any] struct {
	*Base
}

// NewTransform returns a transform pipeline writing through b.
func NewTransform[T types.Overridable[T], V any](b *Base) *Transform[T, V] {
	return &Transform[T, V]{Base: b}
}

// Run patches every record that passes t.Filter with the result of t.Apply.
func (p *Transform[T, V]) Run(t patcher.Transform[T, V], records []types.ModContext[T]) error {
	return runTransform[T, V](p.Base, t, records, nil)
}

// Conditional runs conditional transform patchers over winning contexts.
type Conditional[T types.Overridable[T], V any] struct {
	*Base
}

// NewConditional returns a conditional transform pipeline writing through b.
func NewConditional[T types.Overridable[T], V any](b *Base) *Conditional[T, V] {
	return &Conditional[T, V]{Base: b}
}

// Run is Transform.Run with records whose payload fails t.ShouldPatch dropped.
func (p *Conditional[T, V]) Run(t patcher.ConditionalTransform[T, V], records []types.ModContext[T]) error {
	return runTransform[T, V](p.Base, t, records, t.ShouldPatch)
}

func runTransform[T types.Overridable[T], V any](b *Base, t patcher.Transform[T, V], records []types.ModContext[T], keep func(V) bool) error {
	for _, ctx := range records {
		rec := current(b, ctx)
		if !t.Filter(rec) {
			continue
		}
		value, err := t.Apply(rec)
		if err != nil {
			return fmt.Errorf("apply %s: %w", rec.Key(), err)
		}
		if keep != nil && !keep(value) {
			continue
		}
		if err := patchRecord[T, V](b, patcher.WithPatchingData(ctx, value), t); err != nil {
			return err
		}
	}
	return nil
}
