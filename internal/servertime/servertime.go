// Package servertime is the single millisecond clock used for timestamps and
// for the server-day index that keys once-per-day operations.
package servertime

import (
	"sync/atomic"
	"time"
)

const dayMS = int64(24 * time.Hour / time.Millisecond)

// Clock returns the current time in epoch milliseconds.
type Clock interface {
	NowMS() int64
}

type systemClock struct{}

func (systemClock) NowMS() int64 { return time.Now().UnixMilli() }

// System is the wall clock.
var System Clock = systemClock{}

// Fixed is a settable clock for tests.
type Fixed struct {
	ms atomic.Int64
}

func NewFixed(ms int64) *Fixed {
	f := &Fixed{}
	f.ms.Store(ms)
	return f
}

func (f *Fixed) NowMS() int64            { return f.ms.Load() }
func (f *Fixed) Set(ms int64)            { f.ms.Store(ms) }
func (f *Fixed) Advance(d time.Duration) { f.ms.Add(d.Milliseconds()) }

// Calendar converts epoch milliseconds into server days. A server day starts
// at ResetHour local time in the zone UTCOffsetHours east of UTC.
type Calendar struct {
	UTCOffsetHours int
	ResetHour      int
}

// ServerDay returns the day index for ms. Two timestamps share a server day
// iff they fall between the same pair of daily resets.
func (c Calendar) ServerDay(ms int64) int64 {
	shifted := ms + int64(c.UTCOffsetHours-c.ResetHour)*int64(time.Hour/time.Millisecond)
	day := shifted / dayMS
	if shifted < 0 && shifted%dayMS != 0 {
		day--
	}
	return day
}

// DayOfMonth returns the local calendar day of ms, counted from the reset hour.
func (c Calendar) DayOfMonth(ms int64) int {
	shifted := ms + int64(c.UTCOffsetHours-c.ResetHour)*int64(time.Hour/time.Millisecond)
	return time.UnixMilli(shifted).UTC().Day()
}
