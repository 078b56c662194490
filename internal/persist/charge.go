package persist

import (
	"context"
)

func (db *DB) ListCharges(ctx context.Context, playerID int64) ([]ChargeRow, error) {
	return collectAll[ChargeRow](db.q.Query(ctx,
		`SELECT goods_id, buy_count, first_charge FROM user_charges
		 WHERE player_id = $1 ORDER BY goods_id`, playerID,
	))
}

func (db *DB) ActiveMonthCards(ctx context.Context, playerID int64, nowSec int64) ([]MonthCardRow, error) {
	return collectAll[MonthCardRow](db.q.Query(ctx,
		`SELECT card_id, end_time FROM user_month_card_history
		 WHERE player_id = $1 AND end_time > $2 ORDER BY card_id`, playerID, nowSec,
	))
}

func (db *DB) PutMonthCard(ctx context.Context, playerID int64, row MonthCardRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_month_card_history (player_id, card_id, end_time) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, card_id) DO UPDATE SET end_time = EXCLUDED.end_time`,
		playerID, row.CardID, row.EndTime,
	)
	return err
}

func (db *DB) HasMonthCardClaim(ctx context.Context, playerID int64, serverDay int64) (bool, error) {
	return db.exists(ctx,
		`SELECT 1 FROM user_month_card_days WHERE player_id = $1 AND server_day = $2`,
		playerID, serverDay)
}

func (db *DB) RecordMonthCardClaim(ctx context.Context, playerID int64, serverDay int64, dayOfMonth int32) (bool, error) {
	tag, err := db.q.Exec(ctx,
		`INSERT INTO user_month_card_days (player_id, server_day, day_of_month) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		playerID, serverDay, dayOfMonth,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
