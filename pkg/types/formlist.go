package types

import "slices"

// FormList is an ordered list of form keys, referenced by conditions such as
// GetInCurrentLocFormList.
type FormList struct {
	FormKey  FormKey   `json:"form_key"`
	EditorID string    `json:"editor_id,omitempty"`
	Items    []FormKey `json:"items,omitempty"`
}

// Key implements Record.
func (f *FormList) Key() FormKey { return f.FormKey }

// Editor implements Record.
func (f *FormList) Editor() string { return f.EditorID }

// RecordType implements Record.
func (*FormList) RecordType() string { return RecordTypeFormList }

// DeepCopy returns a copy of the form list.
func (f *FormList) DeepCopy() *FormList {
	if f == nil {
		return nil
	}
	return &FormList{
		FormKey:  f.FormKey,
		EditorID: f.EditorID,
		Items:    slices.Clone(f.Items),
	}
}
