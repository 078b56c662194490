package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/sonettogo/server/internal/persist"
)

func (s *Store) ListHeroes(_ context.Context, playerID int64) ([]persist.HeroRow, error) {
	defer s.lock()()
	return sortedValues(s.st().heroes,
		func(_ int64, h persist.HeroRow) bool { return h.PlayerID == playerID },
		func(a, b persist.HeroRow) int { return cmp.Compare(a.UID, b.UID) },
	), nil
}

func (s *Store) LoadHero(_ context.Context, playerID int64, heroID int32) (*persist.HeroRow, error) {
	defer s.lock()()
	for _, h := range s.st().heroes {
		if h.PlayerID == playerID && h.HeroID == heroID {
			return &h, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateHero(_ context.Context, row *persist.HeroRow) error {
	defer s.lock()()
	d := s.st()
	for _, h := range d.heroes {
		if h.PlayerID == row.PlayerID && h.HeroID == row.HeroID {
			return fmt.Errorf("create hero %d: already owned", row.HeroID)
		}
	}
	d.nextHero++
	row.UID = d.nextHero
	d.heroes[row.UID] = *row
	return nil
}

func (s *Store) UpdateHero(_ context.Context, row *persist.HeroRow) error {
	defer s.lock()()
	d := s.st()
	cur, ok := d.heroes[row.UID]
	if !ok {
		return nil
	}
	next := *row
	next.PlayerID, next.HeroID, next.CreateTime = cur.PlayerID, cur.HeroID, cur.CreateTime
	d.heroes[row.UID] = next
	return nil
}

func (s *Store) ListOwnedSkins(_ context.Context, playerID int64) ([]int32, error) {
	defer s.lock()()
	return keysOf(s.st().ownedSkins, playerID), nil
}

func (s *Store) HasOwnedSkin(_ context.Context, playerID int64, skin int32) (bool, error) {
	defer s.lock()()
	_, ok := s.st().ownedSkins[pk{playerID, skin}]
	return ok, nil
}

func (s *Store) AddOwnedSkin(_ context.Context, playerID int64, skin int32) error {
	defer s.lock()()
	s.st().ownedSkins[pk{playerID, skin}] = struct{}{}
	return nil
}

func (s *Store) ListHeroSkins(_ context.Context, heroUID int64) ([]persist.HeroSkinRow, error) {
	defer s.lock()()
	return sortedValues(s.st().heroSkins,
		func(k pk, _ persist.HeroSkinRow) bool { return k.owner == heroUID },
		func(a, b persist.HeroSkinRow) int { return cmp.Compare(a.Skin, b.Skin) },
	), nil
}

func (s *Store) PutHeroSkin(_ context.Context, row persist.HeroSkinRow) error {
	defer s.lock()()
	s.st().heroSkins[pk{row.HeroUID, row.Skin}] = row
	return nil
}

func (s *Store) ListBirthdays(_ context.Context, playerID int64) ([]persist.BirthdayRow, error) {
	defer s.lock()()
	return sortedValues(s.st().birthdays,
		func(k pk, _ persist.BirthdayRow) bool { return k.owner == playerID },
		func(a, b persist.BirthdayRow) int { return cmp.Compare(a.HeroID, b.HeroID) },
	), nil
}

func (s *Store) PutBirthday(_ context.Context, playerID int64, row persist.BirthdayRow) error {
	defer s.lock()()
	s.st().birthdays[pk{playerID, row.HeroID}] = row
	return nil
}

func keysOf(set map[pk]struct{}, owner int64) []int32 {
	var out []int32
	for k := range set {
		if k.owner == owner {
			out = append(out, k.id)
		}
	}
	slices.Sort(out)
	return out
}
