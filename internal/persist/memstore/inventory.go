package memstore

import (
	"cmp"
	"context"

	"github.com/sonettogo/server/internal/persist"
)

func (s *Store) ListItems(_ context.Context, playerID int64) ([]persist.ItemRow, error) {
	defer s.lock()()
	return sortedValues(s.st().items,
		func(k pk, _ persist.ItemRow) bool { return k.owner == playerID },
		func(a, b persist.ItemRow) int { return cmp.Compare(a.ItemID, b.ItemID) },
	), nil
}

func (s *Store) LoadItem(_ context.Context, playerID int64, itemID int32) (*persist.ItemRow, error) {
	defer s.lock()()
	row, ok := s.st().items[pk{playerID, itemID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *Store) AddItem(_ context.Context, playerID int64, itemID, quantity int32, now int64) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, itemID}
	row := d.items[k]
	row.ItemID = itemID
	row.Quantity += quantity
	row.TotalGain += int64(quantity)
	row.LastUpdateTime = now
	d.items[k] = row
	return nil
}

func (s *Store) RemoveItem(_ context.Context, playerID int64, itemID, quantity int32, now int64) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, itemID}
	row, ok := d.items[k]
	if !ok || row.Quantity < quantity {
		return persist.ErrInsufficient
	}
	row.Quantity -= quantity
	row.LastUseTime = now
	row.LastUpdateTime = now
	d.items[k] = row
	return nil
}

func (s *Store) ListCurrencies(_ context.Context, playerID int64) ([]persist.CurrencyRow, error) {
	defer s.lock()()
	return sortedValues(s.st().currencies,
		func(k pk, _ persist.CurrencyRow) bool { return k.owner == playerID },
		func(a, b persist.CurrencyRow) int { return cmp.Compare(a.CurrencyID, b.CurrencyID) },
	), nil
}

func (s *Store) LoadCurrency(_ context.Context, playerID int64, currencyID int32) (*persist.CurrencyRow, error) {
	defer s.lock()()
	row, ok := s.st().currencies[pk{playerID, currencyID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *Store) AddCurrency(_ context.Context, playerID int64, currencyID, amount int32, now int64) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, currencyID}
	row, ok := d.currencies[k]
	if !ok {
		row = persist.CurrencyRow{CurrencyID: currencyID, LastRecoverTime: now}
	}
	row.Quantity += amount
	d.currencies[k] = row
	return nil
}

func (s *Store) SpendCurrency(_ context.Context, playerID int64, currencyID, amount int32) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, currencyID}
	row, ok := d.currencies[k]
	if !ok || row.Quantity < amount {
		return persist.ErrInsufficient
	}
	row.Quantity -= amount
	d.currencies[k] = row
	return nil
}

func powerUID(r persist.PowerItemRow) int64 { return r.UID }

func (s *Store) ListPowerItems(_ context.Context, playerID int64) ([]persist.PowerItemRow, error) {
	defer s.lock()()
	return ownedList(s.st().powerItems, playerID, powerUID), nil
}

func (s *Store) AddPowerItem(_ context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error) {
	defer s.lock()()
	d := s.st()
	d.nextPower++
	row := persist.PowerItemRow{UID: d.nextPower, ItemID: itemID, Quantity: quantity, CreateTime: now}
	d.powerItems[row.UID] = owned[persist.PowerItemRow]{playerID, row}
	return row.UID, nil
}

func (s *Store) ListInsightItems(_ context.Context, playerID int64) ([]persist.PowerItemRow, error) {
	defer s.lock()()
	return ownedList(s.st().insightItems, playerID, powerUID), nil
}

func (s *Store) LoadInsightItem(_ context.Context, playerID int64, uid int64) (*persist.PowerItemRow, error) {
	defer s.lock()()
	o, ok := s.st().insightItems[uid]
	if !ok || o.player != playerID {
		return nil, nil
	}
	return &o.row, nil
}

func (s *Store) AddInsightItem(_ context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error) {
	defer s.lock()()
	d := s.st()
	d.nextInsight++
	row := persist.PowerItemRow{UID: d.nextInsight, ItemID: itemID, Quantity: quantity, CreateTime: now}
	d.insightItems[row.UID] = owned[persist.PowerItemRow]{playerID, row}
	return row.UID, nil
}

func (s *Store) ConsumeInsightItem(_ context.Context, playerID int64, uid int64, quantity int32) error {
	defer s.lock()()
	d := s.st()
	o, ok := d.insightItems[uid]
	if !ok || o.player != playerID || o.row.Quantity < quantity {
		return persist.ErrInsufficient
	}
	o.row.Quantity -= quantity
	d.insightItems[uid] = o
	return nil
}

func (s *Store) ListEquips(_ context.Context, playerID int64) ([]persist.EquipRow, error) {
	defer s.lock()()
	return sortedValues(s.st().equips,
		func(_ int64, e persist.EquipRow) bool { return e.PlayerID == playerID },
		func(a, b persist.EquipRow) int { return cmp.Compare(a.UID, b.UID) },
	), nil
}

func (s *Store) LoadEquip(_ context.Context, playerID int64, uid int64) (*persist.EquipRow, error) {
	defer s.lock()()
	e, ok := s.st().equips[uid]
	if !ok || e.PlayerID != playerID {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) CreateEquip(_ context.Context, row *persist.EquipRow) error {
	defer s.lock()()
	d := s.st()
	d.nextEquip++
	row.UID = d.nextEquip
	d.equips[row.UID] = *row
	return nil
}

func (s *Store) SetEquipLock(_ context.Context, playerID int64, uid int64, lock bool) error {
	defer s.lock()()
	d := s.st()
	if e, ok := d.equips[uid]; ok && e.PlayerID == playerID {
		e.IsLock = lock
		d.equips[uid] = e
	}
	return nil
}
