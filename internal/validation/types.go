package validation

import (
	"bytes"

	"github.com/goccy/go-json"
)

// OptionalBool is a JSON boolean that remembers whether it was sent.
//
// Decoding never fails: a non-boolean value marks the field Invalid so
// that Validate can report it as a field error.
type OptionalBool struct {
	Present bool
	Null    bool
	Invalid bool
	Value   bool
}

var _ json.Unmarshaler = (*OptionalBool)(nil)

func (b *OptionalBool) UnmarshalJSON(data []byte) error {
	b.Present = true
	switch string(bytes.TrimSpace(data)) {
	case "true":
		b.Value = true
	case "false":
		b.Value = false
	case "null":
		b.Null = true
	default:
		b.Invalid = true
	}
	return nil
}

// Ptr returns the decoded value, or nil when absent, null or invalid.
func (b OptionalBool) Ptr() *bool {
	if !b.Present || b.Null || b.Invalid {
		return nil
	}
	v := b.Value
	return &v
}

func BoolOf(v bool) OptionalBool {
	return OptionalBool{Present: true, Value: v}
}
