package memstore

import (
	"cmp"
	"context"
	"fmt"

	"github.com/sonettogo/server/internal/persist"
)

func (s *Store) LoadAccount(_ context.Context, name string) (*persist.AccountRow, error) {
	defer s.lock()()
	row, ok := s.st().accounts[name]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *Store) CreateAccount(_ context.Context, name, passwordHash string, now int64) (*persist.AccountRow, error) {
	defer s.lock()()
	d := s.st()
	if _, ok := d.accounts[name]; ok {
		return nil, fmt.Errorf("account %q already exists", name)
	}
	d.nextPlayer++
	row := persist.AccountRow{
		Name:         name,
		PasswordHash: passwordHash,
		PlayerID:     d.nextPlayer,
		CreatedAt:    now,
		LastActive:   now,
	}
	d.accounts[name] = row
	return &row, nil
}

func (s *Store) SetOnline(_ context.Context, playerID int64, online bool, now int64) error {
	defer s.lock()()
	d := s.st()
	for name, a := range d.accounts {
		if a.PlayerID == playerID {
			a.Online = online
			a.LastActive = now
			d.accounts[name] = a
		}
	}
	return nil
}

func (s *Store) ResetOnline(context.Context) error {
	defer s.lock()()
	d := s.st()
	for name, a := range d.accounts {
		a.Online = false
		d.accounts[name] = a
	}
	return nil
}

func (s *Store) LoadPlayerState(_ context.Context, playerID int64) (*persist.PlayerStateRow, error) {
	defer s.lock()()
	row, ok := s.st().playerState[playerID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *Store) SavePlayerState(_ context.Context, row persist.PlayerStateRow) error {
	defer s.lock()()
	s.st().playerState[row.PlayerID] = row
	return nil
}

func (s *Store) LoadUserStats(_ context.Context, playerID int64) (*persist.UserStatsRow, error) {
	defer s.lock()()
	row, ok := s.st().userStats[playerID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *Store) SaveUserStats(_ context.Context, playerID int64, row persist.UserStatsRow) error {
	defer s.lock()()
	s.st().userStats[playerID] = row
	return nil
}

func (s *Store) ListCharges(_ context.Context, playerID int64) ([]persist.ChargeRow, error) {
	defer s.lock()()
	return sortedValues(s.st().charges,
		func(k pk, _ persist.ChargeRow) bool { return k.owner == playerID },
		func(a, b persist.ChargeRow) int { return cmp.Compare(a.GoodsID, b.GoodsID) },
	), nil
}

// PutCharge records a purchase row. It is not part of persist.Store; tests
// and tooling use it to seed charge history.
func (s *Store) PutCharge(playerID int64, row persist.ChargeRow) {
	defer s.lock()()
	s.st().charges[pk{playerID, row.GoodsID}] = row
}

func (s *Store) ActiveMonthCards(_ context.Context, playerID int64, nowSec int64) ([]persist.MonthCardRow, error) {
	defer s.lock()()
	return sortedValues(s.st().monthCards,
		func(k pk, v persist.MonthCardRow) bool { return k.owner == playerID && v.EndTime > nowSec },
		func(a, b persist.MonthCardRow) int { return cmp.Compare(a.CardID, b.CardID) },
	), nil
}

func (s *Store) PutMonthCard(_ context.Context, playerID int64, row persist.MonthCardRow) error {
	defer s.lock()()
	s.st().monthCards[pk{playerID, row.CardID}] = row
	return nil
}

func (s *Store) HasMonthCardClaim(_ context.Context, playerID int64, serverDay int64) (bool, error) {
	defer s.lock()()
	_, ok := s.st().cardDays[dayKey{playerID, serverDay}]
	return ok, nil
}

func (s *Store) RecordMonthCardClaim(_ context.Context, playerID int64, serverDay int64, dayOfMonth int32) (bool, error) {
	defer s.lock()()
	d := s.st()
	k := dayKey{playerID, serverDay}
	if _, ok := d.cardDays[k]; ok {
		return false, nil
	}
	d.cardDays[k] = dayOfMonth
	return true, nil
}

// MonthCardClaims counts claim rows for playerID.
func (s *Store) MonthCardClaims(playerID int64) int {
	defer s.lock()()
	n := 0
	for k := range s.st().cardDays {
		if k.player == playerID {
			n++
		}
	}
	return n
}
