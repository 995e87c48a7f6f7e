package quest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Option configures a ConditionForwarder.
type Option func(*ConditionForwarder)

// WithLogger sets the logger that receives one line per added condition.
func WithLogger(logger *zap.Logger) Option {
	return func(f *ConditionForwarder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// ConditionForwarder appends a canonical condition to aliases that have a
// matching condition in the source quest and none in the target.
//
// It is stateless across records and may be run any number of times: an
// alias that already carries a matching condition is never selected again.
type ConditionForwarder struct {
	condition *types.Condition
	match     Matcher
	logger    *zap.Logger
}

var _ patcher.Forward[*types.Quest, []uint32] = (*ConditionForwarder)(nil)

// NewConditionForwarder returns a forwarder that appends copies of
// condition wherever match selects an alias. condition is copied; later
// changes to it have no effect.
func NewConditionForwarder(condition *types.Condition, match Matcher, opts ...Option) (*ConditionForwarder, error) {
	if condition == nil {
		return nil, fmt.Errorf("%w: nil canonical condition", types.ErrConditionNotFound)
	}
	if match == nil {
		match = Exact(condition)
	}
	f := &ConditionForwarder{
		condition: condition.DeepCopy(),
		match:     match,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Condition returns a copy of the canonical condition.
func (f *ConditionForwarder) Condition() *types.Condition {
	return f.condition.DeepCopy()
}

// Analyze returns the IDs of aliases with a matching condition in source
// and none in target, in source alias order.
func (f *ConditionForwarder) Analyze(source, target *types.Quest) ([]uint32, error) {
	have := make(map[uint32]bool)
	for _, id := range AliasesWithCondition(target, f.match) {
		have[id] = true
	}
	var missing []uint32
	for _, id := range AliasesWithCondition(source, f.match) {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ShouldPatch reports whether any alias is missing the condition.
func (f *ConditionForwarder) ShouldPatch(ids []uint32) bool {
	return len(ids) > 0
}

// Patch appends a fresh copy of the canonical condition to each alias in
// ids. An ID absent from target returns types.ErrAliasNotFound; aliases
// handled before it keep their new condition.
func (f *ConditionForwarder) Patch(target *types.Quest, ids []uint32) ([]patcher.Unit, error) {
	units := make([]patcher.Unit, 0, len(ids))
	for _, id := range ids {
		alias, ok := target.Alias(id)
		if !ok {
			return units, fmt.Errorf("%w: alias %d on %s", types.ErrAliasNotFound, id, target.Key())
		}
		alias.Conditions = append(alias.Conditions, f.condition.DeepCopy())
		units = append(units, patcher.Unit{ID: alias.ID, Name: alias.Name})
		f.logger.Info("added condition to alias",
			zap.Stringer("quest", target.Key()),
			zap.String("quest_editor_id", target.EditorID),
			zap.Uint32("alias_id", alias.ID),
			zap.String("alias_name", alias.Name),
		)
	}
	return units, nil
}
