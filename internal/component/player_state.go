package component

import "github.com/sonettogo/server/internal/servertime"

// PlayerState is the per-session projection of mutable flags that would
// otherwise need a row fetch on every command. Timestamps are epoch ms;
// zero means never.
type PlayerState struct {
	PlayerID           int64
	MonthCardClaimedAt int64
	ActivityPushedAt   int64

	cal servertime.Calendar
}

func NewPlayerState(playerID int64, cal servertime.Calendar) *PlayerState {
	return &PlayerState{PlayerID: playerID, cal: cal}
}

// WithCalendar sets the calendar used to compare server days.
func (p *PlayerState) WithCalendar(cal servertime.Calendar) *PlayerState {
	p.cal = cal
	return p
}

// CanClaimMonthCard reports whether the last claim fell on an earlier server
// day than now.
func (p *PlayerState) CanClaimMonthCard(nowMS int64) bool {
	if p.MonthCardClaimedAt == 0 {
		return true
	}
	return p.cal.ServerDay(p.MonthCardClaimedAt) < p.cal.ServerDay(nowMS)
}

func (p *PlayerState) ClaimMonthCard(nowMS int64) {
	p.MonthCardClaimedAt = nowMS
}

func (p *PlayerState) MarkActivityPushesSent(nowMS int64) {
	p.ActivityPushedAt = nowMS
}

// ActivityPushesDue reports whether the daily activity pushes have not yet
// gone out this server day.
func (p *PlayerState) ActivityPushesDue(nowMS int64) bool {
	if p.ActivityPushedAt == 0 {
		return true
	}
	return p.cal.ServerDay(p.ActivityPushedAt) < p.cal.ServerDay(nowMS)
}

// Snapshot returns a copy safe to hand to a storage writer.
func (p *PlayerState) Snapshot() PlayerState {
	return *p
}
