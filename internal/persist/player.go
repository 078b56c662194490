package persist

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (db *DB) LoadPlayerState(ctx context.Context, playerID int64) (*PlayerStateRow, error) {
	return collectOne[PlayerStateRow](db.q.Query(ctx,
		`SELECT player_id, month_card_claimed_at, activity_pushed_at
		 FROM player_state WHERE player_id = $1`, playerID,
	))
}

func (db *DB) SavePlayerState(ctx context.Context, row PlayerStateRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO player_state (player_id, month_card_claimed_at, activity_pushed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id) DO UPDATE SET
		     month_card_claimed_at = EXCLUDED.month_card_claimed_at,
		     activity_pushed_at = EXCLUDED.activity_pushed_at`,
		row.PlayerID, row.MonthCardClaimedAt, row.ActivityPushedAt,
	)
	return err
}

func (db *DB) LoadUserStats(ctx context.Context, playerID int64) (*UserStatsRow, error) {
	return collectOne[UserStatsRow](db.q.Query(ctx,
		`SELECT first_charged, total_charge, is_first_login, user_tag, sandbox_enable, sandbox_balance
		 FROM user_stats WHERE player_id = $1`, playerID,
	))
}

func (db *DB) SaveUserStats(ctx context.Context, playerID int64, row UserStatsRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_stats (player_id, first_charged, total_charge, is_first_login, user_tag, sandbox_enable, sandbox_balance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (player_id) DO UPDATE SET
		     first_charged = EXCLUDED.first_charged,
		     total_charge = EXCLUDED.total_charge,
		     is_first_login = EXCLUDED.is_first_login,
		     user_tag = EXCLUDED.user_tag,
		     sandbox_enable = EXCLUDED.sandbox_enable,
		     sandbox_balance = EXCLUDED.sandbox_balance`,
		playerID, row.FirstCharged, row.TotalCharge, row.IsFirstLogin, row.UserTag,
		row.SandboxEnable, row.SandboxBalance,
	)
	return err
}

func (db *DB) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	return db.q.SendBatch(ctx, batch).Close()
}
