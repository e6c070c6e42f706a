package log

import (
	"fmt"
	"time"
)

// errorKey is the field name used by Err.
const errorKey = "error"

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Str constructs a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int constructs an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 constructs an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint64 constructs a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Bool constructs a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Dur constructs a duration field rendered in milliseconds.
func Dur(key string, value time.Duration) Field {
	return Field{Key: key, Value: float64(value.Microseconds()) / 1000}
}

// Err constructs the canonical error field. A nil error yields an empty value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: ""}
	}
	return Field{Key: errorKey, Value: err}
}

// Any constructs a field from an arbitrary value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Stringer renders value with fmt.
func Stringer(key string, value fmt.Stringer) Field { return Field{Key: key, Value: value.String()} }

// Component tags the entry with a component name.
func Component(name string) Field { return Field{Key: ComponentKey, Value: name} }
