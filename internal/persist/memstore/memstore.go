// Package memstore is an in-process persist.Store. It holds everything under
// one mutex; InTx snapshots the maps and restores them when fn fails.
package memstore

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/sonettogo/server/internal/persist"
)

const (
	heroUIDBase  = 20000000
	equipUIDBase = 30000000
)

type pk struct {
	owner int64
	id    int32
}

type cubeKey struct {
	owner int64
	x, y  int32
}

type dayKey struct {
	player int64
	day    int64
}

type owned[T any] struct {
	player int64
	row    T
}

type state struct {
	nextPlayer, nextHero, nextEquip, nextTemplate int64
	nextPower, nextInsight, nextBuilding          int64

	accounts    map[string]persist.AccountRow
	playerState map[int64]persist.PlayerStateRow
	userStats   map[int64]persist.UserStatsRow

	heroes        map[int64]persist.HeroRow
	ownedSkins    map[pk]struct{}
	heroSkins     map[pk]persist.HeroSkinRow
	birthdays     map[pk]persist.BirthdayRow
	templates     map[int64]persist.TalentTemplateRow
	templateCubes map[cubeKey]persist.CubeRow
	activeCubes   map[cubeKey]persist.CubeRow
	styles        map[pk]struct{}

	items        map[pk]persist.ItemRow
	currencies   map[pk]persist.CurrencyRow
	powerItems   map[int64]owned[persist.PowerItemRow]
	insightItems map[int64]owned[persist.PowerItemRow]
	equips       map[int64]persist.EquipRow

	charges    map[pk]persist.ChargeRow
	monthCards map[pk]persist.MonthCardRow
	cardDays   map[dayKey]int32

	blockPackages map[pk]persist.BlockPackageRow
	specialBlocks map[pk]persist.SpecialBlockRow
	blocks        map[pk]persist.BlockRow
	buildings     map[int64]owned[persist.BuildingRow]
	roads         map[pk]persist.RoadRow
	roomReset     map[int64]bool
}

func newState() *state {
	return &state{
		nextHero:      heroUIDBase,
		nextEquip:     equipUIDBase,
		accounts:      map[string]persist.AccountRow{},
		playerState:   map[int64]persist.PlayerStateRow{},
		userStats:     map[int64]persist.UserStatsRow{},
		heroes:        map[int64]persist.HeroRow{},
		ownedSkins:    map[pk]struct{}{},
		heroSkins:     map[pk]persist.HeroSkinRow{},
		birthdays:     map[pk]persist.BirthdayRow{},
		templates:     map[int64]persist.TalentTemplateRow{},
		templateCubes: map[cubeKey]persist.CubeRow{},
		activeCubes:   map[cubeKey]persist.CubeRow{},
		styles:        map[pk]struct{}{},
		items:         map[pk]persist.ItemRow{},
		currencies:    map[pk]persist.CurrencyRow{},
		powerItems:    map[int64]owned[persist.PowerItemRow]{},
		insightItems:  map[int64]owned[persist.PowerItemRow]{},
		equips:        map[int64]persist.EquipRow{},
		charges:       map[pk]persist.ChargeRow{},
		monthCards:    map[pk]persist.MonthCardRow{},
		cardDays:      map[dayKey]int32{},
		blockPackages: map[pk]persist.BlockPackageRow{},
		specialBlocks: map[pk]persist.SpecialBlockRow{},
		blocks:        map[pk]persist.BlockRow{},
		buildings:     map[int64]owned[persist.BuildingRow]{},
		roads:         map[pk]persist.RoadRow{},
		roomReset:     map[int64]bool{},
	}
}

// clone copies every map. Slice fields inside rows are never mutated in
// place, so sharing them between snapshots is safe.
func (s *state) clone() *state {
	c := *s
	c.accounts = maps.Clone(s.accounts)
	c.playerState = maps.Clone(s.playerState)
	c.userStats = maps.Clone(s.userStats)
	c.heroes = maps.Clone(s.heroes)
	c.ownedSkins = maps.Clone(s.ownedSkins)
	c.heroSkins = maps.Clone(s.heroSkins)
	c.birthdays = maps.Clone(s.birthdays)
	c.templates = maps.Clone(s.templates)
	c.templateCubes = maps.Clone(s.templateCubes)
	c.activeCubes = maps.Clone(s.activeCubes)
	c.styles = maps.Clone(s.styles)
	c.items = maps.Clone(s.items)
	c.currencies = maps.Clone(s.currencies)
	c.powerItems = maps.Clone(s.powerItems)
	c.insightItems = maps.Clone(s.insightItems)
	c.equips = maps.Clone(s.equips)
	c.charges = maps.Clone(s.charges)
	c.monthCards = maps.Clone(s.monthCards)
	c.cardDays = maps.Clone(s.cardDays)
	c.blockPackages = maps.Clone(s.blockPackages)
	c.specialBlocks = maps.Clone(s.specialBlocks)
	c.blocks = maps.Clone(s.blocks)
	c.buildings = maps.Clone(s.buildings)
	c.roads = maps.Clone(s.roads)
	c.roomReset = maps.Clone(s.roomReset)
	return &c
}

type Store struct {
	mu   *sync.Mutex
	d    **state
	inTx bool
}

var _ persist.Store = (*Store)(nil)

func New() *Store {
	d := newState()
	return &Store{mu: &sync.Mutex{}, d: &d}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) st() *state { return *s.d }

func (s *Store) InTx(ctx context.Context, fn func(tx persist.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := (*s.d).clone()
	if err := fn(&Store{mu: s.mu, d: s.d, inTx: true}); err != nil {
		*s.d = snapshot
		return err
	}
	return nil
}

func (s *Store) Close() {}

func sortedValues[K comparable, V any](m map[K]V, keep func(K, V) bool, less func(a, b V) int) []V {
	var out []V
	for k, v := range m {
		if keep(k, v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, less)
	return out
}

func ownedList[T any](m map[int64]owned[T], player int64, uid func(T) int64) []T {
	var out []T
	for _, o := range m {
		if o.player == player {
			out = append(out, o.row)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(uid(a), uid(b)) })
	return out
}
