package persist

import "errors"

// ErrInsufficient is returned by guarded debits when the holding is smaller
// than the amount. Nothing is written in that case.
var ErrInsufficient = errors.New("persist: insufficient quantity")

type AccountRow struct {
	Name         string
	PasswordHash string
	PlayerID     int64
	Online       bool
	CreatedAt    int64
	LastActive   int64
}

// HeroRow is one owned hero. Stats are the snapshot applied by the last
// level change.
type HeroRow struct {
	UID                 int64
	PlayerID            int64
	HeroID              int32
	CreateTime          int64
	Level               int32
	Exp                 int32
	Rank                int32
	Breakthrough        int32
	Skin                int32
	Faith               int32
	ActiveSkillLevel    int32
	ExSkillLevel        int32
	Talent              int32
	DefaultEquipUID     int64
	IsNew               bool
	IsFavor             bool
	DestinyStone        int32
	SpecialEquip        string
	UseTalentTemplateID int32
	TalentStyleUnlock   int32
	TalentStyleRed      int32
	DuplicateCount      int32

	HP       int32
	Attack   int32
	Defense  int32
	Mdefense int32
	Technic  int32

	Cri     int32
	Recri   int32
	CriDmg  int32
	CriDef  int32
	AddDmg  int32
	DropDmg int32
}

type HeroSkinRow struct {
	HeroUID   int64
	Skin      int32
	ExpireSec int64
}

type BirthdayRow struct {
	HeroID        int32
	BirthdayCount int32
}

type TalentTemplateRow struct {
	RowID      int64
	HeroUID    int64
	TemplateID int32
	Name       string
	Style      int32
}

type CubeRow struct {
	CubeID    int32
	Direction int32
	X         int32
	Y         int32
}

type EquipRow struct {
	UID          int64
	PlayerID     int64
	EquipID      int32
	Level        int32
	Exp          int32
	Breakthrough int32
	Count        int32
	IsLock       bool
	RefineLv     int32
}

type ItemRow struct {
	ItemID         int32
	Quantity       int32
	LastUseTime    int64
	LastUpdateTime int64
	TotalGain      int64
}

// PowerItemRow also describes insight items; both are uid-keyed stacks.
type PowerItemRow struct {
	UID        int64
	ItemID     int32
	Quantity   int32
	CreateTime int64
}

type CurrencyRow struct {
	CurrencyID      int32
	Quantity        int32
	LastRecoverTime int64
	ExpiredTime     int64
}

type ChargeRow struct {
	GoodsID     int32
	BuyCount    int32
	FirstCharge bool
}

type MonthCardRow struct {
	CardID  int32
	EndTime int64 // epoch seconds
}

type UserStatsRow struct {
	FirstCharged   bool
	TotalCharge    int64
	IsFirstLogin   bool
	UserTag        string
	SandboxEnable  bool
	SandboxBalance int32
}

type PlayerStateRow struct {
	PlayerID           int64
	MonthCardClaimedAt int64
	ActivityPushedAt   int64
}

type BlockPackageRow struct {
	PackageID int32
	Unused    []int32
	Used      []int32
}

type BlockRow struct {
	BlockID    int32
	X          int32
	Y          int32
	Rotate     int32
	WaterType  int32
	BlockColor int32
}

type SpecialBlockRow struct {
	BlockID    int32
	CreateTime int64
}

type BuildingRow struct {
	UID       int64 // 0 on insert; assigned by storage
	DefineID  int32
	InUse     bool
	X         int32
	Y         int32
	Rotate    int32
	Level     int32
	CreatedAt int64
	UpdatedAt int64
}

type RoadRow struct {
	ID               int32
	FromType         int32
	ToType           int32
	RoadPoints       []byte
	CritterUID       int64
	BuildingUID      int64
	BuildingDefineID int32
	SkinID           int32
	BlockCleanType   int32
}
