package models

import (
	"encoding/json"
	"strconv"
)

// FlexID is a numeric identifier that survives the upstream's inconsistent
// serialization: depending on the endpoint the same id arrives as 2, "2",
// or is absent entirely. Normalization happens once, at decode time, so
// comparisons elsewhere are plain integer equality.
type FlexID struct {
	value int64
	valid bool
}

func NewFlexID(v int64) FlexID {
	return FlexID{value: v, valid: true}
}

// Int64 returns the normalized id. ok is false when the source value was
// missing or not coercible to a number.
func (id FlexID) Int64() (int64, bool) {
	return id.value, id.valid
}

func (id FlexID) Valid() bool {
	return id.valid
}

// Equal reports whether both ids are usable and numerically identical.
// An unusable id never equals anything, itself included.
func (id FlexID) Equal(other FlexID) bool {
	return id.valid && other.valid && id.value == other.value
}

func (id FlexID) String() string {
	if !id.valid {
		return ""
	}
	return strconv.FormatInt(id.value, 10)
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	*id = FlexID{}

	if string(data) == "null" {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			*id = FlexID{value: v, valid: true}
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unexpected shape (object, array, bool): treat as unusable
		// rather than failing the whole payload.
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*id = FlexID{value: v, valid: true}
	}
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if !id.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(id.value, 10)), nil
}
