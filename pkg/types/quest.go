package types

import "fmt"

// QuestAlias is a named slot inside a quest. Its ID is unique within the
// parent quest and stable across overrides of that quest.
type QuestAlias struct {
	ID         uint32       `json:"id"`
	Name       string       `json:"name"`
	Conditions []*Condition `json:"conditions,omitempty"`
}

// DeepCopy returns a copy of the alias and all of its conditions.
func (a *QuestAlias) DeepCopy() *QuestAlias {
	if a == nil {
		return nil
	}
	cp := &QuestAlias{ID: a.ID, Name: a.Name}
	if a.Conditions != nil {
		cp.Conditions = make([]*Condition, len(a.Conditions))
		for i, c := range a.Conditions {
			cp.Conditions[i] = c.DeepCopy()
		}
	}
	return cp
}

// Quest is a quest record with its aliases.
type Quest struct {
	FormKey  FormKey       `json:"form_key"`
	EditorID string        `json:"editor_id,omitempty"`
	Name     string        `json:"name,omitempty"`
	Aliases  []*QuestAlias `json:"aliases,omitempty"`
}

// Key implements Record.
func (q *Quest) Key() FormKey { return q.FormKey }

// Editor implements Record.
func (q *Quest) Editor() string { return q.EditorID }

// RecordType implements Record.
func (*Quest) RecordType() string { return RecordTypeQuest }

// DeepCopy returns a copy of the quest that shares no memory with q.
func (q *Quest) DeepCopy() *Quest {
	if q == nil {
		return nil
	}
	cp := &Quest{FormKey: q.FormKey, EditorID: q.EditorID, Name: q.Name}
	if q.Aliases != nil {
		cp.Aliases = make([]*QuestAlias, len(q.Aliases))
		for i, a := range q.Aliases {
			cp.Aliases[i] = a.DeepCopy()
		}
	}
	return cp
}

// Alias returns the alias with the given ID. Nil aliases are skipped.
func (q *Quest) Alias(id uint32) (*QuestAlias, bool) {
	for _, a := range q.Aliases {
		if a != nil && a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// validate rejects null aliases and null alias conditions.
func (q *Quest) validate() error {
	for i, a := range q.Aliases {
		if a == nil {
			return fmt.Errorf("%w: quest %s alias %d is null", ErrInvalidData, q.FormKey, i)
		}
		for j, c := range a.Conditions {
			if c == nil {
				return fmt.Errorf("%w: quest %s alias %d condition %d is null", ErrInvalidData, q.FormKey, a.ID, j)
			}
		}
	}
	return nil
}
