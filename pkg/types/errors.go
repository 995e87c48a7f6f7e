package types

import "errors"

// Record and lookup errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidFormKey    = errors.New("invalid form key")
	ErrInvalidData       = errors.New("invalid record data")
	ErrTypeMismatch      = errors.New("record type mismatch")
	ErrUnknownRecordType = errors.New("unknown record type")
)

// Patching errors.
var (
	// ErrMissingMod is matched by *MissingModError.
	ErrMissingMod = errors.New("missing required mod")

	// ErrAliasNotFound means an alias ID computed from a quest was absent
	// when the quest's aliases were looked up again. It is never recoverable.
	ErrAliasNotFound = errors.New("quest alias not found")

	ErrFormListNotFound  = errors.New("form list not found")
	ErrConditionNotFound = errors.New("condition not found")
)
