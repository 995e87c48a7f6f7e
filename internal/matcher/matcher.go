// Package matcher compiles condition-matching expressions.
//
// Expressions are written in the expr language and evaluated against an
// Env built from each condition, for example:
//
//	Function == "GetInCurrentLocFormList" && FormList == FormListKey && !OR
package matcher

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mesh-intelligence/loadpatch/internal/quest"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// DefaultExpression matches GetInCurrentLocFormList conditions that point
// at the located form list.
const DefaultExpression = `Function == "GetInCurrentLocFormList" && FormList == FormListKey`

// Env is the environment an expression sees for one condition. FormList and
// FormListKey are form keys in "000800:Mod.esp" form, or "" when unset.
type Env struct {
	Function    string   `expr:"Function"`
	OR          bool     `expr:"OR"`
	Flags       int      `expr:"Flags"`
	Operator    string   `expr:"Operator"`
	Value       float64  `expr:"Value"`
	RunOn       string   `expr:"RunOn"`
	FormList    string   `expr:"FormList"`
	Params      []string `expr:"Params"`
	FormListKey string   `expr:"FormListKey"`
}

// NewEnv builds the environment for c. formList is the located form list,
// or nil when the job has none.
func NewEnv(c *types.Condition, formList *types.FormKey) Env {
	env := Env{
		Function: c.Function,
		OR:       c.Flags.Has(types.FlagOR),
		Flags:    int(c.Flags),
		Operator: c.Operator,
		Value:    c.Value,
		RunOn:    c.RunOn,
		Params:   c.Params,
	}
	if c.FormList != nil {
		env.FormList = c.FormList.String()
	}
	if formList != nil {
		env.FormListKey = formList.String()
	}
	return env
}

// Matcher is a compiled expression.
type Matcher struct {
	source   string
	program  *vm.Program
	formList *types.FormKey
}

// Compile compiles source into a Matcher bound to formList. The expression
// must evaluate to a boolean.
func Compile(source string, formList *types.FormKey) (*Matcher, error) {
	if source == "" {
		source = DefaultExpression
	}
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile match expression %q: %w", source, err)
	}
	m := &Matcher{source: source, program: program}
	if formList != nil {
		fl := *formList
		m.formList = &fl
	}
	return m, nil
}

// Source returns the expression text.
func (m *Matcher) Source() string { return m.source }

// Eval evaluates the expression for c.
func (m *Matcher) Eval(c *types.Condition) (bool, error) {
	out, err := expr.Run(m.program, NewEnv(c, m.formList))
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", m.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Func adapts m to a quest.Matcher. Conditions the expression fails on do
// not match.
func (m *Matcher) Func() quest.Matcher {
	return func(c *types.Condition) bool {
		ok, err := m.Eval(c)
		return err == nil && ok
	}
}

// Canonical narrows match to conditions that are not OR-joined, the form
// a condition must have to be copied onto other aliases.
func Canonical(match quest.Matcher) quest.Matcher {
	return func(c *types.Condition) bool {
		return !c.Flags.Has(types.FlagOR) && match(c)
	}
}
