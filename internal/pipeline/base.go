// Package pipeline runs patchers over collections of record contexts.
//
// A Base owns the output mod and the patch report. Forward, Transform and
// Conditional wrap a Base to run one archetype each; several of them may
// share a Base so that every policy writes into the same output mod and the
// same report. Runs are strictly sequential: each record is analyzed and, if
// it qualifies, patched before the next record is looked at.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Base holds the state shared by every pipeline built on it.
type Base struct {
	patchMod *types.Mod
	report   *Report
	logger   *zap.Logger
}

// Option configures a Base.
type Option func(*Base)

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBase returns a Base writing overrides into patchMod, with an empty report.
func NewBase(patchMod *types.Mod, opts ...Option) *Base {
	b := &Base{
		patchMod: patchMod,
		report:   NewReport(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PatchMod returns the output mod.
func (b *Base) PatchMod() *types.Mod { return b.patchMod }

// Report returns the report accumulated by every run on this Base.
func (b *Base) Report() *Report { return b.report }

// Logger returns the Base's logger.
func (b *Base) Logger() *zap.Logger { return b.logger }

// LogSummary logs the report totals.
func (b *Base) LogSummary() {
	b.logger.Info("patch summary",
		zap.Int("records", b.report.RecordCount()),
		zap.Int("units", b.report.UnitCount()),
		zap.Int("skipped", len(b.report.skipped)),
	)
}

// current returns the record a policy should inspect for ctx: the override
// already in the output mod if an earlier item, policy or run created one,
// otherwise the winning record.
func current[T types.Overridable[T]](b *Base, ctx types.ModContext[T]) T {
	if override, ok := types.GroupOf[T](b.patchMod).Get(ctx.Record().Key()); ok {
		return override
	}
	return ctx.Record()
}

// patchRecord materializes the override for item and applies the patch.
func patchRecord[T types.Overridable[T], V any](b *Base, item patcher.PatchingData[T, V], p patcher.Patcher[T, V]) error {
	target := item.Context.GetOrAddAsOverride(b.patchMod)
	units, err := p.Patch(target, item.Value)
	if err != nil {
		return fmt.Errorf("patch %s: %w", target.Key(), err)
	}
	b.report.add(target, units)

	fields := []zap.Field{zap.Stringer("form_key", target.Key())}
	if editorID := target.Editor(); editorID != "" {
		fields = append(fields, zap.String("editor_id", editorID))
	}
	b.logger.Info("patched record", fields...)
	return nil
}

// skip records a source that could not be resolved.
func (b *Base) skip(rec types.Record, reason string) {
	b.report.addSkip(rec, reason)
	b.logger.Warn("skipping unresolvable record",
		zap.Stringer("form_key", rec.Key()),
		zap.String("editor_id", rec.Editor()),
		zap.String("reason", reason),
	)
}
