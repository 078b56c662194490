package persist

import (
	"context"
)

func (db *DB) ListItems(ctx context.Context, playerID int64) ([]ItemRow, error) {
	return collectAll[ItemRow](db.q.Query(ctx,
		`SELECT item_id, quantity, last_use_time, last_update_time, total_gain
		 FROM items WHERE player_id = $1 ORDER BY item_id`, playerID,
	))
}

func (db *DB) LoadItem(ctx context.Context, playerID int64, itemID int32) (*ItemRow, error) {
	return collectOne[ItemRow](db.q.Query(ctx,
		`SELECT item_id, quantity, last_use_time, last_update_time, total_gain
		 FROM items WHERE player_id = $1 AND item_id = $2`, playerID, itemID,
	))
}

func (db *DB) AddItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO items (player_id, item_id, quantity, last_update_time, total_gain)
		 VALUES ($1, $2, $3, $4, $3)
		 ON CONFLICT (player_id, item_id) DO UPDATE SET
		     quantity = items.quantity + EXCLUDED.quantity,
		     last_update_time = EXCLUDED.last_update_time,
		     total_gain = items.total_gain + EXCLUDED.quantity`,
		playerID, itemID, quantity, now,
	)
	return err
}

func (db *DB) RemoveItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE items SET quantity = quantity - $3, last_use_time = $4, last_update_time = $4
		 WHERE player_id = $1 AND item_id = $2 AND quantity >= $3`,
		playerID, itemID, quantity, now,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficient
	}
	return nil
}

func (db *DB) ListCurrencies(ctx context.Context, playerID int64) ([]CurrencyRow, error) {
	return collectAll[CurrencyRow](db.q.Query(ctx,
		`SELECT currency_id, quantity, last_recover_time, expired_time
		 FROM currencies WHERE player_id = $1 ORDER BY currency_id`, playerID,
	))
}

func (db *DB) LoadCurrency(ctx context.Context, playerID int64, currencyID int32) (*CurrencyRow, error) {
	return collectOne[CurrencyRow](db.q.Query(ctx,
		`SELECT currency_id, quantity, last_recover_time, expired_time
		 FROM currencies WHERE player_id = $1 AND currency_id = $2`, playerID, currencyID,
	))
}

func (db *DB) AddCurrency(ctx context.Context, playerID int64, currencyID, amount int32, now int64) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO currencies (player_id, currency_id, quantity, last_recover_time)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (player_id, currency_id) DO UPDATE SET
		     quantity = currencies.quantity + EXCLUDED.quantity`,
		playerID, currencyID, amount, now,
	)
	return err
}

func (db *DB) SpendCurrency(ctx context.Context, playerID int64, currencyID, amount int32) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE currencies SET quantity = quantity - $3
		 WHERE player_id = $1 AND currency_id = $2 AND quantity >= $3`,
		playerID, currencyID, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficient
	}
	return nil
}

func (db *DB) ListPowerItems(ctx context.Context, playerID int64) ([]PowerItemRow, error) {
	return collectAll[PowerItemRow](db.q.Query(ctx,
		`SELECT uid, item_id, quantity, create_time FROM power_items
		 WHERE player_id = $1 ORDER BY uid`, playerID,
	))
}

func (db *DB) AddPowerItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error) {
	var uid int64
	err := db.q.QueryRow(ctx,
		`INSERT INTO power_items (player_id, item_id, quantity, create_time)
		 VALUES ($1, $2, $3, $4) RETURNING uid`,
		playerID, itemID, quantity, now,
	).Scan(&uid)
	return uid, err
}

func (db *DB) ListInsightItems(ctx context.Context, playerID int64) ([]PowerItemRow, error) {
	return collectAll[PowerItemRow](db.q.Query(ctx,
		`SELECT uid, item_id, quantity, create_time FROM insight_items
		 WHERE player_id = $1 ORDER BY uid`, playerID,
	))
}

func (db *DB) LoadInsightItem(ctx context.Context, playerID int64, uid int64) (*PowerItemRow, error) {
	return collectOne[PowerItemRow](db.q.Query(ctx,
		`SELECT uid, item_id, quantity, create_time FROM insight_items
		 WHERE player_id = $1 AND uid = $2`, playerID, uid,
	))
}

func (db *DB) AddInsightItem(ctx context.Context, playerID int64, itemID, quantity int32, now int64) (int64, error) {
	var uid int64
	err := db.q.QueryRow(ctx,
		`INSERT INTO insight_items (player_id, item_id, quantity, create_time)
		 VALUES ($1, $2, $3, $4) RETURNING uid`,
		playerID, itemID, quantity, now,
	).Scan(&uid)
	return uid, err
}

func (db *DB) ConsumeInsightItem(ctx context.Context, playerID int64, uid int64, quantity int32) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE insight_items SET quantity = quantity - $3
		 WHERE player_id = $1 AND uid = $2 AND quantity >= $3`,
		playerID, uid, quantity,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficient
	}
	return nil
}

func (db *DB) ListEquips(ctx context.Context, playerID int64) ([]EquipRow, error) {
	return collectAll[EquipRow](db.q.Query(ctx,
		`SELECT uid, player_id, equip_id, level, exp, breakthrough, count, is_lock, refine_lv
		 FROM equipment WHERE player_id = $1 ORDER BY uid`, playerID,
	))
}

func (db *DB) LoadEquip(ctx context.Context, playerID int64, uid int64) (*EquipRow, error) {
	return collectOne[EquipRow](db.q.Query(ctx,
		`SELECT uid, player_id, equip_id, level, exp, breakthrough, count, is_lock, refine_lv
		 FROM equipment WHERE player_id = $1 AND uid = $2`, playerID, uid,
	))
}

func (db *DB) CreateEquip(ctx context.Context, e *EquipRow) error {
	return db.q.QueryRow(ctx,
		`INSERT INTO equipment (player_id, equip_id, level, exp, breakthrough, count, is_lock, refine_lv)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING uid`,
		e.PlayerID, e.EquipID, e.Level, e.Exp, e.Breakthrough, e.Count, e.IsLock, e.RefineLv,
	).Scan(&e.UID)
}

func (db *DB) SetEquipLock(ctx context.Context, playerID int64, uid int64, lock bool) error {
	_, err := db.q.Exec(ctx,
		`UPDATE equipment SET is_lock = $1 WHERE player_id = $2 AND uid = $3`, lock, playerID, uid,
	)
	return err
}
