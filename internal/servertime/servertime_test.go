package servertime

import (
	"testing"
	"time"
)

func TestServerDayRollsAtResetHour(t *testing.T) {
	cal := Calendar{UTCOffsetHours: 8, ResetHour: 5}
	loc := time.FixedZone("UTC+8", 8*3600)

	before := time.Date(2026, 3, 10, 4, 59, 59, 0, loc).UnixMilli()
	after := time.Date(2026, 3, 10, 5, 0, 0, 0, loc).UnixMilli()
	lateNight := time.Date(2026, 3, 11, 4, 0, 0, 0, loc).UnixMilli()

	if cal.ServerDay(after) != cal.ServerDay(before)+1 {
		t.Fatalf("day should roll over at 05:00: before=%d after=%d",
			cal.ServerDay(before), cal.ServerDay(after))
	}
	if cal.ServerDay(lateNight) != cal.ServerDay(after) {
		t.Fatalf("04:00 next morning should belong to the previous server day")
	}
	if got := cal.DayOfMonth(after); got != 10 {
		t.Fatalf("day of month = %d, want 10", got)
	}
	if got := cal.DayOfMonth(lateNight); got != 10 {
		t.Fatalf("day of month before reset = %d, want 10", got)
	}
}

func TestFixedClock(t *testing.T) {
	c := NewFixed(1000)
	c.Advance(2 * time.Second)
	if c.NowMS() != 3000 {
		t.Fatalf("NowMS = %d", c.NowMS())
	}
	c.Set(5)
	if c.NowMS() != 5 {
		t.Fatalf("NowMS = %d", c.NowMS())
	}
}
