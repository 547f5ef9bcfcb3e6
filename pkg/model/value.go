// pkg/model/value.go
package model

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	// KindNull marks an absent value (missing cell, SQL NULL, unparseable date)
	KindNull Kind = iota
	// KindText is a free-form string
	KindText
	// KindNumber is a numeric cell
	KindNumber
	// KindTime is a parsed date/time
	KindTime
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single cell. The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  float64
	t    time.Time
}

// Null returns the "no value" marker
func Null() Value {
	return Value{}
}

// Text wraps a string
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number wraps a float
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Time wraps a parsed timestamp
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Kind reports which variant the value holds
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the "no value" marker
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsBlank reports whether v is null or text that trims to nothing
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	default:
		return false
	}
}

// TimeValue returns the timestamp and true when v holds a time
func (v Value) TimeValue() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// NumberValue returns the float and true when v holds a number
func (v Value) NumberValue() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value as text. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal compares two values variant-wise
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindTime:
		return v.t.Equal(other.t)
	default:
		return true
	}
}
