// Package quest forwards quest alias conditions between load-order layers.
//
// The central policy is ConditionForwarder: a forward patcher that appends
// one canonical condition to every alias that carries a matching condition
// in the source version of a quest but not in the current winning version.
package quest

import (
	"fmt"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Matcher selects conditions. It must be pure.
type Matcher func(*types.Condition) bool

// Exact returns a Matcher for conditions structurally equal to c.
func Exact(c *types.Condition) Matcher {
	want := c.DeepCopy()
	return func(got *types.Condition) bool { return want.Equal(got) }
}

// HasCondition reports whether any of alias's conditions satisfies match.
func HasCondition(alias *types.QuestAlias, match Matcher) bool {
	if alias == nil {
		return false
	}
	for _, c := range alias.Conditions {
		if c != nil && match(c) {
			return true
		}
	}
	return false
}

// HasExactCondition reports whether alias carries a condition structurally
// equal to c.
func HasExactCondition(alias *types.QuestAlias, c *types.Condition) bool {
	return HasCondition(alias, Exact(c))
}

// AliasesWithCondition returns the IDs of q's aliases that carry a matching
// condition, in alias order and without duplicates.
func AliasesWithCondition(q *types.Quest, match Matcher) []uint32 {
	if q == nil {
		return nil
	}
	var ids []uint32
	seen := make(map[uint32]bool, len(q.Aliases))
	for _, a := range q.Aliases {
		if a == nil || seen[a.ID] || !HasCondition(a, match) {
			continue
		}
		seen[a.ID] = true
		ids = append(ids, a.ID)
	}
	return ids
}

// FindAliasCondition returns the first matching condition found across the
// aliases of quests, in quest then alias then condition order. The result
// is a deep copy. Returns types.ErrConditionNotFound when nothing matches.
func FindAliasCondition(quests []*types.Quest, match Matcher) (*types.Condition, error) {
	for _, q := range quests {
		if q == nil {
			continue
		}
		for _, a := range q.Aliases {
			if a == nil {
				continue
			}
			for _, c := range a.Conditions {
				if c != nil && match(c) {
					return c.DeepCopy(), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: no alias condition matches", types.ErrConditionNotFound)
}
