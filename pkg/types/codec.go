package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// recordEnvelope carries the type tag that prefixes every record line.
type recordEnvelope struct {
	Type string `json:"type"`
}

// recordDecoders maps a type tag to the decoder for its concrete record.
var recordDecoders = map[string]func([]byte) (Record, error){
	RecordTypeQuest: func(data []byte) (Record, error) {
		var q Quest
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, err
		}
		if err := q.validate(); err != nil {
			return nil, err
		}
		return &q, nil
	},
	RecordTypeFormList: func(data []byte) (Record, error) {
		var f FormList
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return &f, nil
	},
}

// MarshalRecord encodes r as a single JSON object with a "type" field.
func MarshalRecord(r Record) ([]byte, error) {
	switch rec := r.(type) {
	case *Quest:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Quest
		}{RecordTypeQuest, rec})
	case *FormList:
		return json.Marshal(struct {
			Type string `json:"type"`
			*FormList
		}{RecordTypeFormList, rec})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRecordType, r)
	}
}

// UnmarshalRecord decodes a record written by MarshalRecord.
// Unknown fields are ignored; an unknown type tag returns ErrUnknownRecordType.
// Null aliases or alias conditions return ErrInvalidData.
func UnmarshalRecord(data []byte) (Record, error) {
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	decode, ok := recordDecoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecordType, env.Type)
	}
	rec, err := decode(data)
	if errors.Is(err, ErrInvalidData) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if rec.Key().IsNull() {
		return nil, fmt.Errorf("%w: record without form_key", ErrInvalidData)
	}
	return rec, nil
}
