package data

// Row types of the design tables. YAML keys follow the column names of the
// game's table exports.

type Character struct {
	ID            int32  `yaml:"id"`
	Name          string `yaml:"name"`
	Rare          int32  `yaml:"rare"`
	SkinID        int32  `yaml:"skin_id"`
	EquipRec      string `yaml:"equip_rec"`
	DuplicateItem string `yaml:"duplicate_item"`
}

// CharacterLevel is a stat milestone. Only some levels have a row.
type CharacterLevel struct {
	HeroID  int32 `yaml:"hero_id"`
	Level   int32 `yaml:"level"`
	HP      int32 `yaml:"hp"`
	Atk     int32 `yaml:"atk"`
	Def     int32 `yaml:"def"`
	Mdef    int32 `yaml:"mdef"`
	Technic int32 `yaml:"technic"`
	Cri     int32 `yaml:"cri"`
	Recri   int32 `yaml:"recri"`
	CriDmg  int32 `yaml:"cri_dmg"`
	CriDef  int32 `yaml:"cri_def"`
	AddDmg  int32 `yaml:"add_dmg"`
	DropDmg int32 `yaml:"drop_dmg"`
}

// CharacterCosume is the cost of reaching Level for heroes of rarity Rare.
type CharacterCosume struct {
	Level  int32  `yaml:"level"`
	Rare   int32  `yaml:"rare"`
	Cosume string `yaml:"cosume"`
}

type CharacterRank struct {
	HeroID      int32  `yaml:"hero_id"`
	Rank        int32  `yaml:"rank"`
	Consume     string `yaml:"consume"`
	Requirement string `yaml:"requirement"`
}

type CharacterTalent struct {
	HeroID      int32  `yaml:"hero_id"`
	TalentID    int32  `yaml:"talent_id"`
	Consume     string `yaml:"consume"`
	Requirement int32  `yaml:"requirement"` // minimum rank
	TalentMould int32  `yaml:"talent_mould"`
}

type TalentScheme struct {
	ID          int32  `yaml:"id"`
	TalentID    int32  `yaml:"talent_id"`
	TalentMould int32  `yaml:"talent_mould"`
	TalenScheme string `yaml:"talen_scheme"`
}

type TalentStyleCost struct {
	HeroID  int32  `yaml:"hero_id"`
	StyleID int32  `yaml:"style_id"`
	Consume string `yaml:"consume"`
}

type Skin struct {
	ID           int32 `yaml:"id"`
	CharacterID  int32 `yaml:"character_id"`
	GainApproach int32 `yaml:"gain_approach"`
}

// IsInsight reports whether s is the rank-3 unlock skin of heroID.
func (s *Skin) IsInsight(heroID int32) bool {
	return s.CharacterID == heroID && s.ID%100 == 2 && s.GainApproach == 1
}

type InsightItem struct {
	ID       int32  `yaml:"id"`
	HeroRank int32  `yaml:"hero_rank"`
	Effect   string `yaml:"effect"`
}

type Item struct {
	ID      int32  `yaml:"id"`
	Name    string `yaml:"name"`
	Effect  string `yaml:"effect"`
	Rewards string `yaml:"rewards"` // reward pool for boxes without a fixed effect
}

type MonthCard struct {
	ID         int32  `yaml:"id"`
	Days       int32  `yaml:"days"`
	OnceBonus  string `yaml:"once_bonus"`
	DailyBonus string `yaml:"daily_bonus"`
}

// Tables is the raw row set of every design table.
type Tables struct {
	Character       []Character       `yaml:"character"`
	CharacterLevel  []CharacterLevel  `yaml:"character_level"`
	CharacterCosume []CharacterCosume `yaml:"character_cosume"`
	CharacterRank   []CharacterRank   `yaml:"character_rank"`
	CharacterTalent []CharacterTalent `yaml:"character_talent"`
	TalentScheme    []TalentScheme    `yaml:"talent_scheme"`
	TalentStyleCost []TalentStyleCost `yaml:"talent_style_cost"`
	Skin            []Skin            `yaml:"skin"`
	InsightItem     []InsightItem     `yaml:"insight_item"`
	Item            []Item            `yaml:"item"`
	MonthCard       []MonthCard       `yaml:"month_card"`
}
