package types

import "fmt"

// recordGroup is the type-erased view of a Group used by Mod.
type recordGroup interface {
	records() []Record
	len() int
}

// Group holds the records of one type inside a mod. Records are stored in
// insertion order with a key index, so lookups and override materialization
// never create a second entry for the same form key.
type Group[T Overridable[T]] struct {
	items []T
	index map[FormKey]int
}

func newGroup[T Overridable[T]]() *Group[T] {
	return &Group[T]{index: make(map[FormKey]int)}
}

// Len returns the number of records in the group.
func (g *Group[T]) Len() int { return len(g.items) }

// Get returns the record stored under key.
func (g *Group[T]) Get(key FormKey) (T, bool) {
	i, ok := g.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return g.items[i], true
}

// Set adds rec, or replaces the record already stored under its key.
func (g *Group[T]) Set(rec T) {
	key := rec.Key()
	if i, ok := g.index[key]; ok {
		g.items[i] = rec
		return
	}
	g.index[key] = len(g.items)
	g.items = append(g.items, rec)
}

// GetOrAddAsOverride returns the record already stored under winning's key,
// or stores and returns a deep copy of winning.
func (g *Group[T]) GetOrAddAsOverride(winning T) T {
	if existing, ok := g.Get(winning.Key()); ok {
		return existing
	}
	override := winning.DeepCopy()
	g.Set(override)
	return override
}

// All returns the records in insertion order. The slice is a copy; the
// records are not.
func (g *Group[T]) All() []T {
	out := make([]T, len(g.items))
	copy(out, g.items)
	return out
}

func (g *Group[T]) records() []Record {
	out := make([]Record, len(g.items))
	for i, r := range g.items {
		out[i] = r
	}
	return out
}

func (g *Group[T]) len() int { return len(g.items) }

// Mod is one layer of a load order, and also the container that receives
// overrides during a patch run.
type Mod struct {
	ModKey ModKey
	groups map[string]recordGroup
	order  []string
}

// NewMod returns an empty mod.
func NewMod(key ModKey) *Mod {
	return &Mod{ModKey: key, groups: make(map[string]recordGroup)}
}

// GroupOf returns the group holding records of type T, creating it on first
// use. The group is selected by T's RecordType tag.
func GroupOf[T Overridable[T]](m *Mod) *Group[T] {
	var zero T
	tag := zero.RecordType()
	if g, ok := m.groups[tag]; ok {
		typed, ok := g.(*Group[T])
		if !ok {
			panic(fmt.Sprintf("types: record type %q registered with %T, requested as %T", tag, g, typed))
		}
		return typed
	}
	g := newGroup[T]()
	m.groups[tag] = g
	m.order = append(m.order, tag)
	return g
}

// Quests returns the quest group.
func (m *Mod) Quests() *Group[*Quest] { return GroupOf[*Quest](m) }

// FormLists returns the form list group.
func (m *Mod) FormLists() *Group[*FormList] { return GroupOf[*FormList](m) }

// AddRecord stores a decoded record in the group for its type.
// Returns ErrUnknownRecordType for types the mod cannot hold.
func (m *Mod) AddRecord(r Record) error {
	switch rec := r.(type) {
	case *Quest:
		m.Quests().Set(rec)
	case *FormList:
		m.FormLists().Set(rec)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRecordType, r)
	}
	return nil
}

// Records returns every record in the mod, grouped by type in the order the
// groups were first used.
func (m *Mod) Records() []Record {
	var out []Record
	for _, tag := range m.order {
		out = append(out, m.groups[tag].records()...)
	}
	return out
}

// Len returns the total number of records in the mod.
func (m *Mod) Len() int {
	n := 0
	for _, g := range m.groups {
		n += g.len()
	}
	return n
}

// FormListByEditorID returns the first form list whose editor ID matches.
func (m *Mod) FormListByEditorID(editorID string) (*FormList, bool) {
	for _, fl := range m.FormLists().All() {
		if fl.EditorID != "" && fl.EditorID == editorID {
			return fl, true
		}
	}
	return nil, false
}
