package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FormKey
		wantErr bool
	}{
		{name: "padded id", input: "000D62:Skyrim.esm", want: FormKey{ID: 0xD62, Mod: "Skyrim.esm"}},
		{name: "lowercase hex", input: "01abcd:Dawnguard.esm", want: FormKey{ID: 0x01ABCD, Mod: "Dawnguard.esm"}},
		{name: "missing separator", input: "000D62", wantErr: true},
		{name: "empty mod", input: "000D62:", wantErr: true},
		{name: "empty id", input: ":Skyrim.esm", wantErr: true},
		{name: "not hex", input: "zz:Skyrim.esm", wantErr: true},
		{name: "id wider than 24 bits", input: "1000000:Skyrim.esm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormKey(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormKeyString(t *testing.T) {
	k := NewFormKey(0xFF000D62, "Skyrim.esm")
	assert.Equal(t, "000D62:Skyrim.esm", k.String(), "load order index byte is masked off")
	assert.False(t, k.IsNull())
	assert.True(t, FormKey{}.IsNull())
}

func TestFormKeyJSON(t *testing.T) {
	type holder struct {
		Key  FormKey   `json:"key"`
		Keys []FormKey `json:"keys"`
	}
	in := holder{
		Key:  NewFormKey(0x12, "A.esp"),
		Keys: []FormKey{NewFormKey(0x1, "B.esp")},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"000012:A.esp","keys":["000001:B.esp"]}`, string(data))

	var out holder
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`{"key":"bogus"}`), &out)
	assert.ErrorIs(t, err, ErrInvalidFormKey)
}
