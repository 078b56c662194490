package persist

import (
	"context"
)

func (db *DB) LoadAccount(ctx context.Context, name string) (*AccountRow, error) {
	return collectOne[AccountRow](db.q.Query(ctx,
		`SELECT name, password_hash, player_id, online, created_at, last_active
		 FROM accounts WHERE name = $1`, name,
	))
}

func (db *DB) CreateAccount(ctx context.Context, name, passwordHash string, now int64) (*AccountRow, error) {
	row := &AccountRow{
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastActive:   now,
	}
	err := db.q.QueryRow(ctx,
		`INSERT INTO accounts (name, password_hash, created_at, last_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING player_id`,
		row.Name, row.PasswordHash, row.CreatedAt, row.LastActive,
	).Scan(&row.PlayerID)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (db *DB) SetOnline(ctx context.Context, playerID int64, online bool, now int64) error {
	_, err := db.q.Exec(ctx,
		`UPDATE accounts SET online = $1, last_active = $2 WHERE player_id = $3`,
		online, now, playerID,
	)
	return err
}

func (db *DB) ResetOnline(ctx context.Context) error {
	_, err := db.q.Exec(ctx, `UPDATE accounts SET online = FALSE WHERE online`)
	return err
}
