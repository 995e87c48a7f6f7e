package types

import "slices"

// Condition functions referenced by the bundled jobs.
const (
	FunctionGetInCurrentLocFormList = "GetInCurrentLocFormList"
	FunctionGetIsID                 = "GetIsID"
	FunctionGetInCurrentLoc         = "GetInCurrentLoc"
)

// ConditionFlag is a bit set of condition modifiers.
type ConditionFlag uint8

// Condition flags.
const (
	// FlagOR joins the condition to the next one with OR instead of AND.
	FlagOR ConditionFlag = 1 << iota
	FlagUseAliases
	FlagUseGlobal
	FlagUsePackData
	FlagSwapSubjectAndTarget
)

// Has reports whether every bit in f is set.
func (c ConditionFlag) Has(f ConditionFlag) bool {
	return c&f == f
}

// Condition is a predicate attached to a quest alias. Conditions are treated
// as immutable values: code that needs to attach one somewhere else attaches
// a DeepCopy.
type Condition struct {
	Function string        `json:"function"`
	Flags    ConditionFlag `json:"flags,omitempty"`
	Operator string        `json:"operator,omitempty"`
	Value    float64       `json:"value"`
	RunOn    string        `json:"run_on,omitempty"`
	FormList *FormKey      `json:"form_list,omitempty"`
	Params   []string      `json:"params,omitempty"`
}

// Equal reports structural equality. A nil condition equals only nil.
func (c *Condition) Equal(other *Condition) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Function != other.Function ||
		c.Flags != other.Flags ||
		c.Operator != other.Operator ||
		c.Value != other.Value ||
		c.RunOn != other.RunOn {
		return false
	}
	if (c.FormList == nil) != (other.FormList == nil) {
		return false
	}
	if c.FormList != nil && *c.FormList != *other.FormList {
		return false
	}
	return slices.Equal(c.Params, other.Params)
}

// DeepCopy returns a copy that shares no memory with c.
func (c *Condition) DeepCopy() *Condition {
	if c == nil {
		return nil
	}
	cp := *c
	if c.FormList != nil {
		fl := *c.FormList
		cp.FormList = &fl
	}
	if c.Params != nil {
		cp.Params = slices.Clone(c.Params)
	}
	return &cp
}
