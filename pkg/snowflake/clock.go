package snowflake

import "time"

// Clock returns the current time in milliseconds since the Unix epoch.
type Clock interface {
	NowMs() int64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() int64

// NowMs calls f.
func (f ClockFunc) NowMs() int64 { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

// NowMs returns time.Now in Unix milliseconds.
func (SystemClock) NowMs() int64 { return time.Now().UnixMilli() }
