package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates the scalar variants a record cell can hold.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindNumber
	KindBool
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is one cell of a raw telemetry record. Missing is a first-class
// state so a legitimate zero or false is never mistaken for an absent
// reading.
type Value struct {
	kind ValueKind
	num  float64
	b    bool
	str  string
}

func Missing() Value            { return Value{kind: KindMissing} }
func NewNumber(v float64) Value { return Value{kind: KindNumber, num: v} }
func NewBool(v bool) Value      { return Value{kind: KindBool, b: v} }
func NewString(v string) Value  { return Value{kind: KindString, str: v} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsNumber returns the numeric payload; ok is false for other kinds.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// String renders the cell for logs and CSV: Missing is the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// ParseCell decodes a CSV cell: empty means Missing, then number, then
// bool, then string.
func ParseCell(s string) Value {
	if s == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NewNumber(f)
	}
	switch s {
	case "true", "True", "TRUE":
		return NewBool(true)
	case "false", "False", "FALSE":
		return NewBool(false)
	}
	return NewString(s)
}

// MarshalJSON maps Missing to null and non-finite numbers to null, since
// JSON has no representation for them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindMissing:
		return []byte("null"), nil
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts scalars only: null, numbers, booleans, strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(s, []byte("null")):
		*v = Missing()
		return nil
	case bytes.Equal(s, []byte("true")):
		*v = NewBool(true)
		return nil
	case bytes.Equal(s, []byte("false")):
		*v = NewBool(false)
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = NewString(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cell value %s is not a scalar", string(s))
	}
	*v = NewNumber(f)
	return nil
}
