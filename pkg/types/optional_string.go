package types

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks whether a string field was present in JSON and
// whether it was explicitly null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	o.Set = true
	if bytes.Equal(trimmed, []byte("null")) {
		o.Value = nil
		return nil
	}

	var parsed string
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	o.Value = &parsed
	return nil
}

// Cleared reports whether the field was sent as null or an empty string.
func (o OptionalString) Cleared() bool {
	return o.Set && (o.Value == nil || *o.Value == "")
}
