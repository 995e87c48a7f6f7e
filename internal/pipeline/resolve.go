package pipeline

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Skip reasons recorded in the report.
const (
	ReasonUnresolved = "unresolved"
)

// Resolve pairs each source record with its winning context. Sources whose
// key is absent from the link cache are logged, added to b's report as
// skipped, and left out; any other lookup failure is returned.
func Resolve[T types.Overridable[T]](b *Base, cache types.LinkCache, sources []T) ([]patcher.ForwardRecordContext[T], error) {
	out := make([]patcher.ForwardRecordContext[T], 0, len(sources))
	for _, src := range sources {
		ctx, err := types.ResolveContext[T](cache, src.Key())
		if errors.Is(err, types.ErrNotFound) {
			b.skip(src, ReasonUnresolved)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", src.Key(), err)
		}
		out = append(out, patcher.WithContext(src, ctx))
	}
	return out, nil
}

// Winning returns the winning contexts of records, for transform pipelines
// that start from resolved forward pairs.
func Winning[T types.Overridable[T]](records []patcher.ForwardRecordContext[T]) []types.ModContext[T] {
	out := make([]types.ModContext[T], len(records))
	for i, r := range records {
		out[i] = r.Winning
	}
	return out
}
