package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	assert.Equal(t, Identifier{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, id)
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f", id.String())

	upper, err := ParseIdentifier("000102030405060708090A0B0C0D0E0F")
	require.NoError(t, err)
	assert.Equal(t, id, upper)

	for _, bad := range []string{"", "00", "zz0102030405060708090a0b0c0d0e0f", "000102030405060708090a0b0c0d0e0f00"} {
		_, err := ParseIdentifier(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestBlob_JSON(t *testing.T) {
	data, err := json.Marshal(Blob{0, 127, 255})
	require.NoError(t, err)
	assert.JSONEq(t, `[0,127,255]`, string(data))

	data, err = json.Marshal(Blob(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	tests := []struct {
		name    string
		input   string
		want    Blob
		wantErr bool
	}{
		{name: "array", input: `[1, 2, 255]`, want: Blob{1, 2, 255}},
		{name: "empty array", input: `[]`, want: Blob{}},
		{name: "base64", input: `"AQL/"`, want: Blob{1, 2, 255}},
		{name: "out of range", input: `[256]`, wantErr: true},
		{name: "negative", input: `[-1]`, wantErr: true},
		{name: "bad base64", input: `"***"`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Blob
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_EntriesKeyedByHex(t *testing.T) {
	doc := Document{
		ID:      "store",
		Entries: map[Identifier]Blob{{0xab}: {9}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries":{"ab000000000000000000000000000000":[9]}`)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, doc.Entries, back.Entries)
}

func TestOutcome_Merge(t *testing.T) {
	assert.Equal(t, Unchanged, Unchanged.Merge(Unchanged))
	assert.Equal(t, Changed, Unchanged.Merge(Changed))
	assert.Equal(t, Changed, Changed.Merge(Unchanged))
	assert.Equal(t, Changed, Changed.Merge(Changed))
	assert.Equal(t, "changed", Changed.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}
