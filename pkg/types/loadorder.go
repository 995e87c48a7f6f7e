package types

import (
	"fmt"
	"strings"
)

// ModListing is one entry of a load order. Mod is nil when the listing names
// a mod whose data is not available.
type ModListing struct {
	Key     ModKey
	Enabled bool
	Mod     *Mod
}

// Exists reports whether the listing's mod data is available.
func (l ModListing) Exists() bool { return l.Mod != nil }

// LoadOrder lists mods from lowest to highest priority. Later entries
// override earlier ones for records with the same form key.
type LoadOrder struct {
	Listings []ModListing
}

// Priority returns the index of key in the load order, or -1 if the mod is
// not listed. Keys match without regard to case.
func (lo LoadOrder) Priority(key ModKey) int {
	for i, l := range lo.Listings {
		if l.Key.Equal(key) {
			return i
		}
	}
	return -1
}

// ListsMod reports whether key appears in the load order, enabled or not.
func (lo LoadOrder) ListsMod(key ModKey) bool {
	return lo.Priority(key) >= 0
}

// ModExists reports whether key is listed with its data present. When
// enabled is true the listing must also be enabled.
func (lo LoadOrder) ModExists(key ModKey, enabled bool) bool {
	i := lo.Priority(key)
	if i < 0 {
		return false
	}
	l := lo.Listings[i]
	return l.Exists() && (!enabled || l.Enabled)
}

// TryGetIfEnabledAndExists returns the mod for key when it is listed,
// enabled, and present.
func (lo LoadOrder) TryGetIfEnabledAndExists(key ModKey) (*Mod, bool) {
	i := lo.Priority(key)
	if i < 0 {
		return nil, false
	}
	l := lo.Listings[i]
	if !l.Enabled || !l.Exists() {
		return nil, false
	}
	return l.Mod, true
}

// EnabledMods returns the enabled, present mods in priority order.
func (lo LoadOrder) EnabledMods() []*Mod {
	var out []*Mod
	for _, l := range lo.Listings {
		if l.Enabled && l.Exists() {
			out = append(out, l.Mod)
		}
	}
	return out
}

// AssertListsAnyMod checks that at least one of keys is usable: listed,
// enabled, and present. Otherwise it returns a *MissingModError naming every
// alternative. Hosts call this before any patching starts.
func (lo LoadOrder) AssertListsAnyMod(keys []ModKey) error {
	for _, key := range keys {
		if lo.ModExists(key, true) {
			return nil
		}
	}
	return &MissingModError{Alternatives: append([]ModKey(nil), keys...)}
}

// ResolvePluginVersion returns the first usable mod among alternatives,
// which are given in order of preference. It fails with the same
// *MissingModError as AssertListsAnyMod when none is usable.
func (lo LoadOrder) ResolvePluginVersion(alternatives []ModKey) (*Mod, error) {
	for _, key := range alternatives {
		if mod, ok := lo.TryGetIfEnabledAndExists(key); ok {
			return mod, nil
		}
	}
	return nil, &MissingModError{Alternatives: append([]ModKey(nil), alternatives...)}
}

// MissingModError reports that none of a set of alternative mods is usable.
// It matches ErrMissingMod with errors.Is.
type MissingModError struct {
	Alternatives []ModKey
	Message      string
}

func (e *MissingModError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	names := make([]string, len(e.Alternatives))
	for i, k := range e.Alternatives {
		names[i] = k.String()
	}
	return fmt.Sprintf("unable to find any of the following mods in the load order: [%s]", strings.Join(names, ", "))
}

func (e *MissingModError) Is(target error) bool {
	return target == ErrMissingMod
}
