package pipeline

import (
	"fmt"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Forward runs forward patchers over source/winning pairs.
type Forward[T types.Overridable[T], V any] struct {
	*Base
}

// NewForward returns a forward pipeline writing through b.
func NewForward[T types.Overridable[T], V any](b *Base) *Forward[T, V] {
	return &Forward[T, V]{Base: b}
}

// Run analyzes each record against its current version and patches the ones
// the patcher selects, in input order. An Analyze or Patch error aborts the
// run; patches already applied stay in the output mod.
func (p *Forward[T, V]) Run(f patcher.Forward[T, V], records []patcher.ForwardRecordContext[T]) error {
	for _, rec := range records {
		target := current(p.Base, rec.Winning)
		value, err := f.Analyze(rec.Source, target)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", target.Key(), err)
		}
		if !f.ShouldPatch(value) {
			continue
		}
		if err := patchRecord[T, V](p.Base, patcher.WithPatchingData(rec.Winning, value), f); err != nil {
			return err
		}
	}
	return nil
}

// RunSources resolves the winning context of every source through cache,
// skipping the ones that cannot be resolved, then runs f over the rest.
func (p *Forward[T, V]) RunSources(f patcher.Forward[T, V], cache types.LinkCache, sources []T) error {
	records, err := Resolve(p.Base, cache, sources)
	if err != nil {
		return err
	}
	return p.Run(f, records)
}
