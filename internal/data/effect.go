package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// EffectKind is the leading tag of a design effect segment.
type EffectKind int32

const (
	EffectItem      EffectKind = 1
	EffectCurrency  EffectKind = 2
	EffectHero      EffectKind = 4
	EffectEquip     EffectKind = 9
	EffectPowerItem EffectKind = 10
)

func (k EffectKind) valid() bool {
	switch k {
	case EffectItem, EffectCurrency, EffectHero, EffectEquip, EffectPowerItem:
		return true
	}
	return false
}

// Effect is one typed reward or cost line.
type Effect struct {
	Kind   EffectKind
	ID     int32
	Amount int32
}

// Effects is a parsed effect string, in source order.
type Effects []Effect

// ParseEffects parses "type#id#amount|type#id#amount". Segments with fewer
// than three fields are ignored; segments that fail to parse or carry an
// unknown type are dropped with a warning. log may be nil.
func ParseEffects(s string, log *zap.Logger) Effects {
	if s == "" {
		return nil
	}
	var out Effects
	for _, seg := range strings.Split(s, "|") {
		parts := strings.Split(seg, "#")
		if len(parts) < 3 {
			continue
		}
		e, err := parseEffect(parts)
		if err != nil {
			if log != nil {
				log.Warn("dropping malformed effect segment", zap.String("segment", seg), zap.Error(err))
			}
			continue
		}
		if !e.Kind.valid() {
			if log != nil {
				log.Warn("dropping effect segment with unknown type", zap.String("segment", seg))
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseEffect(parts []string) (Effect, error) {
	kind, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return Effect{}, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return Effect{}, err
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 32)
	if err != nil {
		return Effect{}, err
	}
	return Effect{Kind: EffectKind(kind), ID: int32(id), Amount: int32(amount)}, nil
}

// Of returns the effects of one kind, in order.
func (es Effects) Of(kind EffectKind) Effects {
	var out Effects
	for _, e := range es {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ErrAmountOverflow reports a scaled amount that does not fit in int32.
var ErrAmountOverflow = errors.New("effect amount overflows int32")

// Scale multiplies every amount by n.
func (es Effects) Scale(n int32) (Effects, error) {
	out := make(Effects, len(es))
	for i, e := range es {
		v := int64(e.Amount) * int64(n)
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("%w: %d x %d", ErrAmountOverflow, e.Amount, n)
		}
		e.Amount = int32(v)
		out[i] = e
	}
	return out, nil
}

// Merge sums amounts of equal (kind, id) pairs, keeping first-seen order.
func (es Effects) Merge() Effects {
	type key struct {
		kind EffectKind
		id   int32
	}
	idx := make(map[key]int, len(es))
	var out Effects
	for _, e := range es {
		k := key{e.Kind, e.ID}
		if i, ok := idx[k]; ok {
			out[i].Amount += e.Amount
			continue
		}
		idx[k] = len(out)
		out = append(out, e)
	}
	return out
}

// LeadingItem returns the item id of the first segment of s when that
// segment is an item line.
func LeadingItem(s string) (int32, bool) {
	first, _, _ := strings.Cut(s, "|")
	parts := strings.Split(first, "#")
	if len(parts) < 3 {
		return 0, false
	}
	e, err := parseEffect(parts)
	if err != nil || e.Kind != EffectItem {
		return 0, false
	}
	return e.ID, true
}

// Cube is one talent cube placement.
type Cube struct {
	CubeID    int32
	Direction int32
	X         int32
	Y         int32
}

// ParseCubeLayout parses "cubeId,dir,x,y#cubeId,dir,x,y". Entries that do not
// have exactly four integer fields are dropped.
func ParseCubeLayout(s string) []Cube {
	if s == "" {
		return nil
	}
	var out []Cube
	for _, entry := range strings.Split(s, "#") {
		parts := strings.Split(entry, ",")
		if len(parts) != 4 {
			continue
		}
		var v [4]int32
		ok := true
		for i, p := range parts {
			n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
			if err != nil {
				ok = false
				break
			}
			v[i] = int32(n)
		}
		if ok {
			out = append(out, Cube{CubeID: v[0], Direction: v[1], X: v[2], Y: v[3]})
		}
	}
	return out
}

// RankRequirement is the parsed requirement column of a rank row.
type RankRequirement struct {
	Level    int32 // the hero must be exactly at this level
	HasLevel bool
}

// ParseRankRequirement parses "1#required_level". Anything that does not
// start with the level tag carries no requirement; a level tag with a
// non-numeric level is an error.
func ParseRankRequirement(s string) (RankRequirement, error) {
	if s == "" {
		return RankRequirement{}, nil
	}
	parts := strings.Split(s, "#")
	if len(parts) < 2 || parts[0] != "1" {
		return RankRequirement{}, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return RankRequirement{}, err
	}
	return RankRequirement{Level: int32(n), HasLevel: true}, nil
}
