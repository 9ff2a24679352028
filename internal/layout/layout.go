// Package layout turns stored page layout payloads into the canonical
// sequence of component descriptors.
//
// Editors have historically saved layouts in several shapes: a JSON array,
// a single bare component object, a JSON-encoded string wrapping either of
// those, or nothing at all. Raw captures which shape was found and
// Normalize maps every shape to a sequence. Descriptors are never inspected;
// they are carried through as raw JSON.
package layout

import (
	"bytes"
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind identifies the shape of a stored layout payload.
type Kind int

const (
	// Absent means no payload was stored, or it decoded to null.
	Absent Kind = iota
	// Text is a string that may itself contain encoded JSON.
	Text
	// Sequence is the canonical array form.
	Sequence
	// Single is one bare component descriptor.
	Single
	// Scalar is a number or boolean; it carries no components.
	Scalar
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Text:
		return "text"
	case Sequence:
		return "sequence"
	case Single:
		return "single"
	case Scalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Raw is a stored layout payload tagged with its shape.
type Raw struct {
	kind   Kind
	text   string
	items  []json.RawMessage
	single json.RawMessage
}

// AbsentRaw returns the payload for a missing layout.
func AbsentRaw() Raw { return Raw{kind: Absent} }

// TextRaw wraps a textual payload.
func TextRaw(s string) Raw { return Raw{kind: Text, text: s} }

// SequenceRaw wraps an already canonical list of descriptors.
func SequenceRaw(items []json.RawMessage) Raw { return Raw{kind: Sequence, items: items} }

// SingleRaw wraps one bare descriptor.
func SingleRaw(item json.RawMessage) Raw { return Raw{kind: Single, single: item} }

// Kind reports the payload shape.
func (r Raw) Kind() Kind { return r.kind }

// FromStored classifies the text kept in the layout column. nil means the
// column was NULL. Text that is not valid JSON is kept verbatim as Text.
func FromStored(stored *string) Raw {
	if stored == nil {
		return AbsentRaw()
	}
	if r, ok := classify([]byte(*stored)); ok {
		return r
	}
	return TextRaw(*stored)
}

// FromValue classifies an in-memory value such as one decoded from YAML or
// produced by encoding/json.
func FromValue(v any) Raw {
	switch value := v.(type) {
	case nil:
		return AbsentRaw()
	case string:
		return TextRaw(value)
	case json.RawMessage:
		if r, ok := classify(value); ok {
			return r
		}
		return AbsentRaw()
	}

	encoded, err := codec.Marshal(v)
	if err != nil {
		return AbsentRaw()
	}
	if r, ok := classify(encoded); ok {
		return r
	}
	return AbsentRaw()
}

// Normalize returns the components held by r. The result is never nil.
func Normalize(r Raw) []json.RawMessage {
	switch r.kind {
	case Sequence:
		if r.items == nil {
			return []json.RawMessage{}
		}
		return r.items
	case Single:
		return []json.RawMessage{r.single}
	case Text:
		return normalizeText(r.text)
	case Absent, Scalar:
		return []json.RawMessage{}
	default:
		return []json.RawMessage{}
	}
}

// NormalizeStored is FromStored followed by Normalize.
func NormalizeStored(stored *string) []json.RawMessage {
	return Normalize(FromStored(stored))
}

func normalizeText(text string) []json.RawMessage {
	if strings.TrimSpace(text) == "" {
		return []json.RawMessage{}
	}

	parsed, ok := classify([]byte(text))
	if !ok {
		return []json.RawMessage{quote(text)}
	}

	// Intentional: a string that decodes to another string is kept as the
	// single entry instead of being dropped like other primitives.
	if parsed.kind == Text {
		return []json.RawMessage{quote(parsed.text)}
	}
	return Normalize(parsed)
}

// classify decodes data as JSON and reports ok=false when it is not valid.
func classify(data []byte) (Raw, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !codec.Valid(trimmed) {
		return Raw{}, false
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := codec.Unmarshal(trimmed, &items); err != nil {
			return Raw{}, false
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		return SequenceRaw(items), true
	case '{':
		return SingleRaw(json.RawMessage(append([]byte(nil), trimmed...))), true
	case '"':
		var s string
		if err := codec.Unmarshal(trimmed, &s); err != nil {
			return Raw{}, false
		}
		return TextRaw(s), true
	case 'n':
		return AbsentRaw(), true
	default:
		return Raw{kind: Scalar}, true
	}
}

func quote(s string) json.RawMessage {
	encoded, err := codec.Marshal(s)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return encoded
}
