package persist

import (
	"context"
)

func nonNil(ids []int32) []int32 {
	if ids == nil {
		return []int32{}
	}
	return ids
}

func (db *DB) ListBlockPackages(ctx context.Context, playerID int64) ([]BlockPackageRow, error) {
	return collectAll[BlockPackageRow](db.q.Query(ctx,
		`SELECT block_package_id, unused_block_ids, used_block_ids
		 FROM user_block_packages WHERE player_id = $1 ORDER BY block_package_id`, playerID,
	))
}

func (db *DB) AddBlockPackage(ctx context.Context, playerID int64, packageID int32) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_block_packages (player_id, block_package_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		playerID, packageID,
	)
	return err
}

func (db *DB) UpdateBlockPackage(ctx context.Context, playerID int64, row BlockPackageRow) error {
	_, err := db.q.Exec(ctx,
		`UPDATE user_block_packages SET unused_block_ids = $1, used_block_ids = $2
		 WHERE player_id = $3 AND block_package_id = $4`,
		nonNil(row.Unused), nonNil(row.Used), playerID, row.PackageID,
	)
	return err
}

func (db *DB) ListSpecialBlocks(ctx context.Context, playerID int64) ([]SpecialBlockRow, error) {
	return collectAll[SpecialBlockRow](db.q.Query(ctx,
		`SELECT block_id, create_time FROM user_special_blocks
		 WHERE player_id = $1 ORDER BY block_id`, playerID,
	))
}

func (db *DB) AddSpecialBlock(ctx context.Context, playerID int64, blockID int32, now int64) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_special_blocks (player_id, block_id, create_time) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		playerID, blockID, now,
	)
	return err
}

func (db *DB) ListBlocks(ctx context.Context, playerID int64) ([]BlockRow, error) {
	return collectAll[BlockRow](db.q.Query(ctx,
		`SELECT block_id, x, y, rotate, water_type, block_color FROM user_blocks
		 WHERE player_id = $1 ORDER BY block_id`, playerID,
	))
}

func (db *DB) SaveBlock(ctx context.Context, playerID int64, b BlockRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_blocks (player_id, block_id, x, y, rotate, water_type, block_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (player_id, block_id) DO UPDATE SET
		     x = EXCLUDED.x, y = EXCLUDED.y, rotate = EXCLUDED.rotate,
		     water_type = EXCLUDED.water_type, block_color = EXCLUDED.block_color`,
		playerID, b.BlockID, b.X, b.Y, b.Rotate, b.WaterType, b.BlockColor,
	)
	return err
}

func (db *DB) DeleteBlock(ctx context.Context, playerID int64, blockID int32) error {
	_, err := db.q.Exec(ctx,
		`DELETE FROM user_blocks WHERE player_id = $1 AND block_id = $2`, playerID, blockID)
	return err
}

func (db *DB) ListBuildings(ctx context.Context, playerID int64) ([]BuildingRow, error) {
	return collectAll[BuildingRow](db.q.Query(ctx,
		`SELECT uid, define_id, in_use, x, y, rotate, level, created_at, updated_at
		 FROM user_buildings WHERE player_id = $1 ORDER BY uid`, playerID,
	))
}

func (db *DB) SaveBuilding(ctx context.Context, playerID int64, b BuildingRow) (int64, error) {
	if b.UID == 0 {
		var uid int64
		err := db.q.QueryRow(ctx,
			`INSERT INTO user_buildings (player_id, define_id, in_use, x, y, rotate, level, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING uid`,
			playerID, b.DefineID, b.InUse, b.X, b.Y, b.Rotate, b.Level, b.CreatedAt, b.UpdatedAt,
		).Scan(&uid)
		return uid, err
	}
	_, err := db.q.Exec(ctx,
		`UPDATE user_buildings SET define_id = $3, in_use = $4, x = $5, y = $6, rotate = $7,
		     level = $8, updated_at = $9
		 WHERE player_id = $1 AND uid = $2`,
		playerID, b.UID, b.DefineID, b.InUse, b.X, b.Y, b.Rotate, b.Level, b.UpdatedAt,
	)
	return b.UID, err
}

func (db *DB) DeleteBuilding(ctx context.Context, playerID int64, uid int64) (bool, error) {
	tag, err := db.q.Exec(ctx,
		`DELETE FROM user_buildings WHERE player_id = $1 AND uid = $2`, playerID, uid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) ListRoads(ctx context.Context, playerID int64) ([]RoadRow, error) {
	return collectAll[RoadRow](db.q.Query(ctx,
		`SELECT id, from_type, to_type, road_points, critter_uid, building_uid,
		        building_define_id, skin_id, block_clean_type
		 FROM user_roads WHERE player_id = $1 ORDER BY id`, playerID,
	))
}

func (db *DB) SaveRoad(ctx context.Context, playerID int64, r RoadRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_roads (player_id, id, from_type, to_type, road_points, critter_uid,
		                         building_uid, building_define_id, skin_id, block_clean_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (player_id, id) DO UPDATE SET
		     from_type = EXCLUDED.from_type, to_type = EXCLUDED.to_type,
		     road_points = EXCLUDED.road_points, critter_uid = EXCLUDED.critter_uid,
		     building_uid = EXCLUDED.building_uid, building_define_id = EXCLUDED.building_define_id,
		     skin_id = EXCLUDED.skin_id, block_clean_type = EXCLUDED.block_clean_type`,
		playerID, r.ID, r.FromType, r.ToType, r.RoadPoints, r.CritterUID,
		r.BuildingUID, r.BuildingDefineID, r.SkinID, r.BlockCleanType,
	)
	return err
}

func (db *DB) DeleteRoad(ctx context.Context, playerID int64, id int32) error {
	_, err := db.q.Exec(ctx, `DELETE FROM user_roads WHERE player_id = $1 AND id = $2`, playerID, id)
	return err
}

func (db *DB) RoomReset(ctx context.Context, playerID int64) (bool, error) {
	return db.exists(ctx,
		`SELECT 1 FROM user_room_state WHERE player_id = $1 AND is_reset`, playerID)
}

func (db *DB) SetRoomReset(ctx context.Context, playerID int64, reset bool, now int64) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO user_room_state (player_id, is_reset, last_reset_time) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id) DO UPDATE SET
		     is_reset = EXCLUDED.is_reset, last_reset_time = EXCLUDED.last_reset_time`,
		playerID, reset, now,
	)
	return err
}
