// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// DefaultIDField is the member projected out of each record when no other
// field is configured.
const DefaultIDField = "id"

// Record is one JSON object from a source file. Member values are kept as
// raw JSON so the projected id is emitted exactly as it was read.
type Record map[string]json.RawMessage

// ID returns the raw value of field and whether the record has it.
func (r Record) ID(field string) (json.RawMessage, bool) {
	v, ok := r[field]
	return v, ok
}

// IDList is the ordered projection of a RecordCollection onto one field.
type IDList []json.RawMessage
