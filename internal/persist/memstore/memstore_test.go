package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sonettogo/server/internal/persist"
)

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.AddCurrency(ctx, 1, 2, 100, 0); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx persist.Store) error {
		if err := tx.SpendCurrency(ctx, 1, 2, 60); err != nil {
			return err
		}
		if err := tx.AddItem(ctx, 1, 110101, 3, 0); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx err = %v", err)
	}

	cur, _ := s.LoadCurrency(ctx, 1, 2)
	if cur == nil || cur.Quantity != 100 {
		t.Fatalf("currency after rollback = %+v", cur)
	}
	if item, _ := s.LoadItem(ctx, 1, 110101); item != nil {
		t.Fatalf("item survived rollback: %+v", item)
	}
}

func TestInTxCommitsAndNests(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.InTx(ctx, func(tx persist.Store) error {
		if err := tx.AddItem(ctx, 1, 5, 2, 0); err != nil {
			return err
		}
		return tx.InTx(ctx, func(inner persist.Store) error {
			return inner.AddItem(ctx, 1, 5, 3, 0)
		})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	item, _ := s.LoadItem(ctx, 1, 5)
	if item == nil || item.Quantity != 5 || item.TotalGain != 5 {
		t.Fatalf("item = %+v", item)
	}
}

func TestGuardedDebits(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.AddItem(ctx, 1, 9, 2, 0)

	if err := s.RemoveItem(ctx, 1, 9, 3, 0); !errors.Is(err, persist.ErrInsufficient) {
		t.Fatalf("overdraw item err = %v", err)
	}
	if err := s.RemoveItem(ctx, 1, 404, 1, 0); !errors.Is(err, persist.ErrInsufficient) {
		t.Fatalf("missing item err = %v", err)
	}
	if err := s.SpendCurrency(ctx, 1, 2, 1); !errors.Is(err, persist.ErrInsufficient) {
		t.Fatalf("missing currency err = %v", err)
	}
	if err := s.RemoveItem(ctx, 1, 9, 2, 0); err != nil {
		t.Fatalf("exact debit: %v", err)
	}
	item, _ := s.LoadItem(ctx, 1, 9)
	if item.Quantity != 0 {
		t.Fatalf("quantity = %d", item.Quantity)
	}
}

func TestSurrogateIDsAreSeededAndMonotonic(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := &persist.HeroRow{PlayerID: 1, HeroID: 3086}
	b := &persist.HeroRow{PlayerID: 1, HeroID: 3120}
	if err := s.CreateHero(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateHero(ctx, b); err != nil {
		t.Fatal(err)
	}
	if a.UID <= heroUIDBase || b.UID <= a.UID {
		t.Fatalf("hero uids %d %d", a.UID, b.UID)
	}
	if err := s.CreateHero(ctx, &persist.HeroRow{PlayerID: 1, HeroID: 3086}); err == nil {
		t.Fatal("duplicate hero accepted")
	}

	e := &persist.EquipRow{PlayerID: 1, EquipID: 1501}
	_ = s.CreateEquip(ctx, e)
	if e.UID <= equipUIDBase {
		t.Fatalf("equip uid %d", e.UID)
	}
}

func TestCubesReplaceAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	tpl := &persist.TalentTemplateRow{HeroUID: 7, TemplateID: 1}
	_ = s.CreateTalentTemplate(ctx, tpl)

	_ = s.PutTemplateCube(ctx, tpl.RowID, persist.CubeRow{CubeID: 1, X: 2, Y: 2})
	_ = s.PutTemplateCube(ctx, tpl.RowID, persist.CubeRow{CubeID: 2, X: 0, Y: 1})
	_ = s.PutTemplateCube(ctx, tpl.RowID, persist.CubeRow{CubeID: 3, X: 2, Y: 2})

	cubes, _ := s.TemplateCubes(ctx, tpl.RowID)
	if len(cubes) != 2 || cubes[0].CubeID != 2 || cubes[1].CubeID != 3 {
		t.Fatalf("cubes = %+v", cubes)
	}

	_ = s.ReplaceActiveCubes(ctx, 7, cubes)
	_ = s.ReplaceActiveCubes(ctx, 7, cubes[:1])
	active, _ := s.ActiveCubes(ctx, 7)
	if len(active) != 1 || active[0].CubeID != 2 {
		t.Fatalf("active = %+v", active)
	}
}

func TestMonthCardClaimOncePerDay(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.PutMonthCard(ctx, 1, persist.MonthCardRow{CardID: 610001, EndTime: 2000})
	_ = s.PutMonthCard(ctx, 1, persist.MonthCardRow{CardID: 610002, EndTime: 500})

	active, _ := s.ActiveMonthCards(ctx, 1, 1000)
	if len(active) != 1 || active[0].CardID != 610001 {
		t.Fatalf("active = %+v", active)
	}

	first, _ := s.RecordMonthCardClaim(ctx, 1, 42, 3)
	second, _ := s.RecordMonthCardClaim(ctx, 1, 42, 3)
	if !first || second {
		t.Fatalf("claims = %v %v", first, second)
	}
	if n := s.MonthCardClaims(1); n != 1 {
		t.Fatalf("claim rows = %d", n)
	}
}

func TestBuildingsGetStorageUIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	uid, _ := s.SaveBuilding(ctx, 1, persist.BuildingRow{DefineID: 100, CreatedAt: 5})
	if uid == 0 {
		t.Fatal("no uid assigned")
	}
	if _, err := s.SaveBuilding(ctx, 1, persist.BuildingRow{UID: uid, DefineID: 100, Level: 2}); err != nil {
		t.Fatal(err)
	}
	list, _ := s.ListBuildings(ctx, 1)
	if len(list) != 1 || list[0].Level != 2 || list[0].CreatedAt != 5 {
		t.Fatalf("buildings = %+v", list)
	}
	if ok, _ := s.DeleteBuilding(ctx, 2, uid); ok {
		t.Fatal("deleted another player's building")
	}
	if ok, _ := s.DeleteBuilding(ctx, 1, uid); !ok {
		t.Fatal("delete failed")
	}
}
