package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ModKey names a mod by file name and extension, e.g. "Skyrim.esm".
type ModKey string

// String returns the mod file name.
func (k ModKey) String() string { return string(k) }

// Equal reports whether k and other name the same mod. Mod file names
// compare without regard to case.
func (k ModKey) Equal(other ModKey) bool { return strings.EqualFold(string(k), string(other)) }

// IsNull reports whether the key is empty.
func (k ModKey) IsNull() bool { return k == "" }

// formIDMask limits the local record ID to the 24 bits a mod may address.
const formIDMask = 0x00FFFFFF

// FormKey identifies a record by its local ID and the mod that defines it.
// FormKey is comparable and is used directly as a map key.
type FormKey struct {
	ID  uint32
	Mod ModKey
}

// NewFormKey builds a FormKey, masking id to its local 24 bits.
func NewFormKey(id uint32, mod ModKey) FormKey {
	return FormKey{ID: id & formIDMask, Mod: mod}
}

// ParseFormKey parses the "<hex id>:<ModKey>" notation produced by String.
// Returns ErrInvalidFormKey on malformed input.
func ParseFormKey(s string) (FormKey, error) {
	idPart, modPart, ok := strings.Cut(s, ":")
	if !ok || idPart == "" || modPart == "" {
		return FormKey{}, fmt.Errorf("%w: %q", ErrInvalidFormKey, s)
	}
	id, err := strconv.ParseUint(idPart, 16, 32)
	if err != nil || id > formIDMask {
		return FormKey{}, fmt.Errorf("%w: %q", ErrInvalidFormKey, s)
	}
	return FormKey{ID: uint32(id), Mod: ModKey(modPart)}, nil
}

// String formats the key as six hex digits followed by the mod key.
func (k FormKey) String() string {
	return fmt.Sprintf("%06X:%s", k.ID, k.Mod)
}

// IsNull reports whether the key is the zero value.
func (k FormKey) IsNull() bool {
	return k.ID == 0 && k.Mod == ""
}

// MarshalText implements encoding.TextMarshaler.
func (k FormKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FormKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFormKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
