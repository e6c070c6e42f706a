package snowflake

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("snowflake: invalid configuration")
	// ErrClockRegression is matched by every *ClockRegressionError.
	ErrClockRegression = errors.New("snowflake: clock moved backwards")
	// ErrClockOutOfRange is matched by every *ClockOutOfRangeError.
	ErrClockOutOfRange = errors.New("snowflake: clock outside the id time range")
	// ErrInvalidNumber is returned when a ticket/order number cannot be parsed.
	ErrInvalidNumber = errors.New("snowflake: invalid number")
)

// ConfigurationError reports an out-of-range identity at construction.
type ConfigurationError struct {
	Field string
	Value int64
	Max   int64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("snowflake: %s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ClockRegressionError reports a clock reading behind the last issued timestamp.
type ClockRegressionError struct {
	LastMs int64
	NowMs  int64
}

// Regression returns how far the clock moved backwards, in milliseconds.
func (e *ClockRegressionError) Regression() int64 { return e.LastMs - e.NowMs }

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("snowflake: clock moved backwards, refusing to generate id for %d milliseconds", e.Regression())
}

func (e *ClockRegressionError) Is(target error) bool { return target == ErrClockRegression }

// ClockOutOfRangeError reports a clock reading before Epoch or at or past
// Horizon. Such a reading cannot be packed into 41 bits without wrapping.
type ClockOutOfRangeError struct {
	NowMs int64
}

func (e *ClockOutOfRangeError) Error() string {
	return fmt.Sprintf("snowflake: clock reading %d ms outside [%d, %d)", e.NowMs, Epoch, Epoch+MaxTimestamp+1)
}

func (e *ClockOutOfRangeError) Is(target error) bool { return target == ErrClockOutOfRange }
