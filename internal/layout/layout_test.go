package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func marshal(t *testing.T, v []json.RawMessage) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestNormalizeStored(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
		want   string
	}{
		{name: "null column", stored: nil, want: `[]`},
		{name: "empty string", stored: strPtr(""), want: `[]`},
		{name: "whitespace", stored: strPtr("  \n"), want: `[]`},
		{name: "json null", stored: strPtr("null"), want: `[]`},
		{name: "array", stored: strPtr(`[{"type":"Hero"},{"type":"Footer"}]`), want: `[{"type":"Hero"},{"type":"Footer"}]`},
		{name: "empty array", stored: strPtr(`[]`), want: `[]`},
		{name: "bare object", stored: strPtr(`{"type":"Hero"}`), want: `[{"type":"Hero"}]`},
		{name: "string encoded array", stored: strPtr(`"[{\"type\":\"Hero\"}]"`), want: `[{"type":"Hero"}]`},
		{name: "string encoded object", stored: strPtr(`"{\"type\":\"Hero\"}"`), want: `[{"type":"Hero"}]`},
		{name: "string encoded null", stored: strPtr(`"null"`), want: `[]`},
		{name: "malformed text", stored: strPtr(`[{"type":"Hero"`), want: `["[{\"type\":\"Hero\""]`},
		{name: "plain json string", stored: strPtr(`"hello"`), want: `["hello"]`},
		{name: "number", stored: strPtr(`42`), want: `[]`},
		{name: "boolean", stored: strPtr(`true`), want: `[]`},
		{name: "array of primitives", stored: strPtr(`[1,"a",null]`), want: `[1,"a",null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []json.RawMessage
			require.NotPanics(t, func() { got = NormalizeStored(tt.stored) })
			require.NotNil(t, got)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestNormalizeVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want string
	}{
		{name: "absent", raw: AbsentRaw(), want: `[]`},
		{name: "zero value", raw: Raw{}, want: `[]`},
		{name: "scalar", raw: FromValue(3.5), want: `[]`},
		{name: "nil sequence", raw: SequenceRaw(nil), want: `[]`},
		{name: "single", raw: SingleRaw(json.RawMessage(`{"a":1}`)), want: `[{"a":1}]`},
		{name: "text array", raw: TextRaw(`[{"a":1}]`), want: `[{"a":1}]`},
		{name: "text garbage", raw: TextRaw(`not json`), want: `["not json"]`},
		{name: "text number", raw: TextRaw(`7`), want: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			require.NotNil(t, got)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestNormalizeSequenceIsIdentity(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"type":"Hero","props":{"title":"Hi"}}`),
		json.RawMessage(`{"type":"CTA"}`),
	}

	got := Normalize(SequenceRaw(items))

	require.Len(t, got, len(items))
	for i := range items {
		assert.Equal(t, string(items[i]), string(got[i]))
	}

	again := Normalize(SequenceRaw(got))
	assert.Equal(t, marshal(t, got), marshal(t, again))
}

func TestFromValue(t *testing.T) {
	assert.Equal(t, Absent, FromValue(nil).Kind())
	assert.Equal(t, Text, FromValue(`[{"type":"Hero"}]`).Kind())
	assert.Equal(t, Sequence, FromValue([]any{map[string]any{"type": "Hero"}}).Kind())
	assert.Equal(t, Single, FromValue(map[string]any{"a": 1}).Kind())
	assert.Equal(t, Scalar, FromValue(true).Kind())
	assert.Equal(t, Sequence, FromValue(json.RawMessage(`[]`)).Kind())

	got := Normalize(FromValue(map[string]any{"a": 1}))
	assert.JSONEq(t, `[{"a":1}]`, marshal(t, got))
}

func TestFromStoredKinds(t *testing.T) {
	assert.Equal(t, Absent, FromStored(nil).Kind())
	assert.Equal(t, Text, FromStored(strPtr("garbage")).Kind())
	assert.Equal(t, Text, FromStored(strPtr(`"[]"`)).Kind())
	assert.Equal(t, Sequence, FromStored(strPtr(` [ ] `)).Kind())
	assert.Equal(t, Single, FromStored(strPtr(`{}`)).Kind())
	assert.Equal(t, Absent, FromStored(strPtr(`null`)).Kind())
	assert.Equal(t, "sequence", Sequence.String())
}
