// Package persist is the gateway to player storage. Reads return (nil, nil)
// or an empty slice for missing rows; callers decide whether absence is an
// error. Postgres backs production and memstore backs tests and dev mode.
package persist

import "context"

type AccountStore interface {
	LoadAccount(ctx context.Context, name string) (*AccountRow, error)
	// CreateAccount inserts the account and assigns its player id.
	CreateAccount(ctx context.Context, name, passwordHash string, now int64) (*AccountRow, error)
	SetOnline(ctx context.Context, playerID int64, online bool, now int64) error
	// ResetOnline clears every online flag; run once at boot.
	ResetOnline(ctx context.Context) error
}

type PlayerStore interface {
	LoadPlayerState(ctx context.Context, playerID int64) (*PlayerStateRow, error)
	SavePlayerState(ctx context.Context, row PlayerStateRow) error
	LoadUserStats(ctx context.Context, playerID int64) (*UserStatsRow, error)
	SaveUserStats(ctx context.Context, playerID int64, row UserStatsRow) error
}

type HeroStore interface {
	ListHeroes(ctx context.Context, playerID int64) ([]HeroRow, error)
	LoadHero(ctx context.Context, playerID int64, heroID int32) (*HeroRow, error)
	// CreateHero assigns row.UID from the hero sequence.
	CreateHero(ctx context.Context, row *HeroRow) error
	// UpdateHero writes every mutable column of row, matched by uid.
	UpdateHero(ctx context.Context, row *HeroRow) error

	ListOwnedSkins(ctx context.Context, playerID int64) ([]int32, error)
	HasOwnedSkin(ctx context.Context, playerID int64, skin int32) (bool, error)
	AddOwnedSkin(ctx context.Context, playerID int64, skin int32) error
	ListHeroSkins(ctx context.Context, heroUID int64) ([]HeroSkinRow, error)
	PutHeroSkin(ctx context.Context, row HeroSkinRow) error

	ListBirthdays(ctx context.Context, playerID int64) ([]BirthdayRow, error)
	PutBirthday(ctx context.Context, playerID int64, row BirthdayRow) error
}

type TalentStore interface {
	ListTalentTemplates(ctx context.Context, heroUID int64) ([]TalentTemplateRow, error)
	LoadTalentTemplate(ctx context.Context, heroUID int64, templateID int32) (*TalentTemplateRow, error)
	// CreateTalentTemplate assigns row.RowID.
	CreateTalentTemplate(ctx context.Context, row *TalentTemplateRow) error
	SetTemplateStyle(ctx context.Context, rowID int64, style int32) error

	TemplateCubes(ctx context.Context, rowID int64) ([]CubeRow, error)
	// PutTemplateCube replaces whatever sits at (cube.X, cube.Y).
	PutTemplateCube(ctx context.Context, rowID int64, cube CubeRow) error
	DeleteTemplateCube(ctx context.Context, rowID int64, x, y int32) error
	ReplaceTemplateCubes(ctx context.Context, rowID int64, cubes []CubeRow) error

	ActiveCubes(ctx context.Context, heroUID int64) ([]CubeRow, error)
	PutActiveCube(ctx context.Context, heroUID int64, cube CubeRow) error
	DeleteActiveCube(ctx context.Context, heroUID int64, x, y int32) error
	ReplaceActiveCubes(ctx context.Context, heroUID int64, cubes []CubeRow) error

	ListTalentStyles(ctx context.Context, heroUID int64) ([]int32, error)
	HasTalentStyle(ctx context.Context, heroUID int64, style int32) (bool, error)
	AddTalentStyle(ctx context.Context, heroUID int64, style int32) error
}

type InventoryStore interface {
	ListItems(ctx context.Context, playerID int64) ([]ItemRow, error)
	LoadItem(ctx context.Context, playerID int64, itemID int32) (*ItemRow, error)
	AddItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) error
	// RemoveItem fails with ErrInsufficient when fewer than quantity are held.
	RemoveItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) error

	ListCurrencies(ctx context.Context, playerID int64) ([]CurrencyRow, error)
	LoadCurrency(ctx context.Context, playerID int64, currencyID int32) (*CurrencyRow, error)
	AddCurrency(ctx context.Context, playerID int64, currencyID, amount int32, now int64) error
	// SpendCurrency fails with ErrInsufficient when the balance is short.
	SpendCurrency(ctx context.Context, playerID int64, currencyID, amount int32) error

	ListPowerItems(ctx context.Context, playerID int64) ([]PowerItemRow, error)
	AddPowerItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error)
	ListInsightItems(ctx context.Context, playerID int64) ([]PowerItemRow, error)
	LoadInsightItem(ctx context.Context, playerID int64, uid int64) (*PowerItemRow, error)
	AddInsightItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error)
	ConsumeInsightItem(ctx context.Context, playerID int64, uid int64, quantity int32) error

	ListEquips(ctx context.Context, playerID int64) ([]EquipRow, error)
	LoadEquip(ctx context.Context, playerID int64, uid int64) (*EquipRow, error)
	// CreateEquip assigns row.UID from the equip sequence.
	CreateEquip(ctx context.Context, row *EquipRow) error
	SetEquipLock(ctx context.Context, playerID int64, uid int64, lock bool) error
}

type ChargeStore interface {
	ListCharges(ctx context.Context, playerID int64) ([]ChargeRow, error)
	// ActiveMonthCards returns cards with end_time after nowSec, by card id.
	ActiveMonthCards(ctx context.Context, playerID int64, nowSec int64) ([]MonthCardRow, error)
	PutMonthCard(ctx context.Context, playerID int64, row MonthCardRow) error
	HasMonthCardClaim(ctx context.Context, playerID int64, serverDay int64) (bool, error)
	// RecordMonthCardClaim reports whether a new claim row was inserted.
	RecordMonthCardClaim(ctx context.Context, playerID int64, serverDay int64, dayOfMonth int32) (bool, error)
}

type RoomStore interface {
	ListBlockPackages(ctx context.Context, playerID int64) ([]BlockPackageRow, error)
	AddBlockPackage(ctx context.Context, playerID int64, packageID int32) error
	UpdateBlockPackage(ctx context.Context, playerID int64, row BlockPackageRow) error
	ListSpecialBlocks(ctx context.Context, playerID int64) ([]SpecialBlockRow, error)
	AddSpecialBlock(ctx context.Context, playerID int64, blockID int32, now int64) error
	ListBlocks(ctx context.Context, playerID int64) ([]BlockRow, error)
	SaveBlock(ctx context.Context, playerID int64, row BlockRow) error
	DeleteBlock(ctx context.Context, playerID int64, blockID int32) error
	ListBuildings(ctx context.Context, playerID int64) ([]BuildingRow, error)
	// SaveBuilding inserts when row.UID is 0 and returns the uid.
	SaveBuilding(ctx context.Context, playerID int64, row BuildingRow) (int64, error)
	DeleteBuilding(ctx context.Context, playerID int64, uid int64) (bool, error)
	ListRoads(ctx context.Context, playerID int64) ([]RoadRow, error)
	SaveRoad(ctx context.Context, playerID int64, row RoadRow) error
	DeleteRoad(ctx context.Context, playerID int64, id int32) error
	RoomReset(ctx context.Context, playerID int64) (bool, error)
	SetRoomReset(ctx context.Context, playerID int64, reset bool, now int64) error
}

// Store is the full gateway. InTx runs fn against a store bound to one
// transaction; fn's error rolls everything back. Nested InTx calls join the
// outer transaction.
type Store interface {
	AccountStore
	PlayerStore
	HeroStore
	TalentStore
	InventoryStore
	ChargeStore
	RoomStore

	InTx(ctx context.Context, fn func(tx Store) error) error
	Close()
}
