package types

import "fmt"

// Record type tags used in mod files and group lookups.
const (
	RecordTypeQuest    = "quest"
	RecordTypeFormList = "form_list"
)

// Record is the minimal capability the patching pipeline needs from a major
// record: a stable key, an optional editor ID, and a type tag.
type Record interface {
	// Key returns the record's form key. It never changes across overrides.
	Key() FormKey

	// Editor returns the human-readable editor ID, or "" if the record has none.
	Editor() string

	// RecordType returns one of the RecordType constants. Implementations
	// must not dereference the receiver so that a nil pointer of the
	// concrete type still reports its tag.
	RecordType() string
}

// Overridable is a Record that can be deep-copied into an override of its
// own concrete type.
type Overridable[T any] interface {
	Record
	DeepCopy() T
}

// ModContext binds a record to the mod that provides its winning version.
type ModContext[T Overridable[T]] interface {
	// Record returns the winning version of the record. Callers must treat
	// it as read-only.
	Record() T

	// ModKey returns the mod that provides the winning version.
	ModKey() ModKey

	// GetOrAddAsOverride returns the override of the bound record inside out,
	// creating it from a deep copy of Record on first use. Subsequent calls
	// for the same key return the same instance.
	GetOrAddAsOverride(out *Mod) T
}

type modContext[T Overridable[T]] struct {
	record T
	modKey ModKey
}

// NewModContext binds record to the mod that provides it.
func NewModContext[T Overridable[T]](record T, modKey ModKey) ModContext[T] {
	return modContext[T]{record: record, modKey: modKey}
}

func (c modContext[T]) Record() T { return c.record }

func (c modContext[T]) ModKey() ModKey { return c.modKey }

func (c modContext[T]) GetOrAddAsOverride(out *Mod) T {
	return GroupOf[T](out).GetOrAddAsOverride(c.record)
}

// LinkCache resolves form keys to the winning version of a record across a
// load order. Implementations are read-only and may be called repeatedly.
type LinkCache interface {
	// Lookup returns the winning record for key and the mod that provides it.
	// Returns ErrNotFound if no enabled mod defines the key.
	Lookup(key FormKey) (Record, ModKey, error)
}

// ResolveContext resolves key through cache and binds the winning record to
// a ModContext of the requested concrete type. Returns ErrNotFound if the key
// is absent and ErrTypeMismatch if the winning record is of another type.
func ResolveContext[T Overridable[T]](cache LinkCache, key FormKey) (ModContext[T], error) {
	rec, modKey, err := cache.Lookup(key)
	if err != nil {
		return nil, err
	}
	typed, ok := rec.(T)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, key, rec.RecordType())
	}
	return NewModContext(typed, modKey), nil
}
