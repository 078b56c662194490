// Package data holds the static design tables. A Catalogue is built once at
// startup and shared read-only by every session.
package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

type pair struct{ a, b int32 }

// Catalogue indexes Tables for O(1) lookup by primary or compound key.
type Catalogue struct {
	characters  map[int32]*Character
	levels      map[int32][]*CharacterLevel // by hero, ascending level
	cosume      map[pair]*CharacterCosume   // (level, rare)
	ranks       map[pair]*CharacterRank     // (hero, rank)
	talents     map[pair]*CharacterTalent   // (hero, talent)
	schemes     map[pair]*TalentScheme      // (talent, mould)
	styleCosts  map[pair]*TalentStyleCost   // (hero, style)
	skins       map[int32]*Skin
	insightSkin map[int32]*Skin // by character id
	insight     map[int32]*InsightItem
	items       map[int32]*Item
	monthCards  map[int32]*MonthCard

	tables *Tables
}

// NewCatalogue indexes t. The first row wins on duplicate keys, matching a
// linear scan of the source table.
func NewCatalogue(t *Tables) *Catalogue {
	c := &Catalogue{
		characters:  make(map[int32]*Character, len(t.Character)),
		levels:      make(map[int32][]*CharacterLevel),
		cosume:      make(map[pair]*CharacterCosume, len(t.CharacterCosume)),
		ranks:       make(map[pair]*CharacterRank, len(t.CharacterRank)),
		talents:     make(map[pair]*CharacterTalent, len(t.CharacterTalent)),
		schemes:     make(map[pair]*TalentScheme, len(t.TalentScheme)),
		styleCosts:  make(map[pair]*TalentStyleCost, len(t.TalentStyleCost)),
		skins:       make(map[int32]*Skin, len(t.Skin)),
		insightSkin: make(map[int32]*Skin),
		insight:     make(map[int32]*InsightItem, len(t.InsightItem)),
		items:       make(map[int32]*Item, len(t.Item)),
		monthCards:  make(map[int32]*MonthCard, len(t.MonthCard)),
		tables:      t,
	}
	for i := range t.Character {
		r := &t.Character[i]
		if _, ok := c.characters[r.ID]; !ok {
			c.characters[r.ID] = r
		}
	}
	for i := range t.CharacterLevel {
		r := &t.CharacterLevel[i]
		c.levels[r.HeroID] = append(c.levels[r.HeroID], r)
	}
	for _, rows := range c.levels {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
	}
	for i := range t.CharacterCosume {
		r := &t.CharacterCosume[i]
		putFirst(c.cosume, pair{r.Level, r.Rare}, r)
	}
	for i := range t.CharacterRank {
		r := &t.CharacterRank[i]
		putFirst(c.ranks, pair{r.HeroID, r.Rank}, r)
	}
	for i := range t.CharacterTalent {
		r := &t.CharacterTalent[i]
		putFirst(c.talents, pair{r.HeroID, r.TalentID}, r)
	}
	for i := range t.TalentScheme {
		r := &t.TalentScheme[i]
		putFirst(c.schemes, pair{r.TalentID, r.TalentMould}, r)
	}
	for i := range t.TalentStyleCost {
		r := &t.TalentStyleCost[i]
		putFirst(c.styleCosts, pair{r.HeroID, r.StyleID}, r)
	}
	for i := range t.Skin {
		r := &t.Skin[i]
		if _, ok := c.skins[r.ID]; !ok {
			c.skins[r.ID] = r
		}
		if r.IsInsight(r.CharacterID) {
			if _, ok := c.insightSkin[r.CharacterID]; !ok {
				c.insightSkin[r.CharacterID] = r
			}
		}
	}
	for i := range t.InsightItem {
		r := &t.InsightItem[i]
		if _, ok := c.insight[r.ID]; !ok {
			c.insight[r.ID] = r
		}
	}
	for i := range t.Item {
		r := &t.Item[i]
		if _, ok := c.items[r.ID]; !ok {
			c.items[r.ID] = r
		}
	}
	for i := range t.MonthCard {
		r := &t.MonthCard[i]
		if _, ok := c.monthCards[r.ID]; !ok {
			c.monthCards[r.ID] = r
		}
	}
	return c
}

func putFirst[T any](m map[pair]*T, k pair, v *T) {
	if _, ok := m[k]; !ok {
		m[k] = v
	}
}

func (c *Catalogue) Character(id int32) *Character { return c.characters[id] }

// LevelStats returns the row with the largest level <= level for heroID.
func (c *Catalogue) LevelStats(heroID, level int32) *CharacterLevel {
	rows := c.levels[heroID]
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Level > level })
	if i == 0 {
		return nil
	}
	return rows[i-1]
}

func (c *Catalogue) LevelCost(level, rare int32) *CharacterCosume {
	return c.cosume[pair{level, rare}]
}

func (c *Catalogue) Rank(heroID, rank int32) *CharacterRank {
	return c.ranks[pair{heroID, rank}]
}

func (c *Catalogue) Talent(heroID, talentID int32) *CharacterTalent {
	return c.talents[pair{heroID, talentID}]
}

func (c *Catalogue) TalentScheme(talentID, mould int32) *TalentScheme {
	return c.schemes[pair{talentID, mould}]
}

func (c *Catalogue) TalentStyleCost(heroID, styleID int32) *TalentStyleCost {
	return c.styleCosts[pair{heroID, styleID}]
}

func (c *Catalogue) Skin(id int32) *Skin { return c.skins[id] }

// InsightSkin returns the skin unlocked when heroID reaches rank 3.
func (c *Catalogue) InsightSkin(heroID int32) *Skin { return c.insightSkin[heroID] }

func (c *Catalogue) InsightItem(id int32) *InsightItem { return c.insight[id] }

func (c *Catalogue) Item(id int32) *Item { return c.items[id] }

func (c *Catalogue) MonthCard(id int32) *MonthCard { return c.monthCards[id] }

// Counts returns the row count of every table, keyed by table name.
func (c *Catalogue) Counts() map[string]int {
	t := c.tables
	return map[string]int{
		"character":         len(t.Character),
		"character_level":   len(t.CharacterLevel),
		"character_cosume":  len(t.CharacterCosume),
		"character_rank":    len(t.CharacterRank),
		"character_talent":  len(t.CharacterTalent),
		"talent_scheme":     len(t.TalentScheme),
		"talent_style_cost": len(t.TalentStyleCost),
		"skin":              len(t.Skin),
		"insight_item":      len(t.InsightItem),
		"item":              len(t.Item),
		"month_card":        len(t.MonthCard),
	}
}

// TableNames lists the YAML files LoadCatalogue reads, without extension.
var TableNames = []string{
	"character", "character_level", "character_cosume", "character_rank",
	"character_talent", "talent_scheme", "talent_style_cost", "skin",
	"insight_item", "item", "month_card",
}

// LoadCatalogue reads <dir>/<table>.yaml for every table in TableNames. Each
// file is a mapping with the table name as its single key.
func LoadCatalogue(dir string) (*Catalogue, error) {
	var t Tables
	for _, name := range TableNames {
		path := filepath.Join(dir, name+".yaml")
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return NewCatalogue(&t), nil
}
