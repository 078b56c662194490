package persist

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (db *DB) ListTalentTemplates(ctx context.Context, heroUID int64) ([]TalentTemplateRow, error) {
	return collectAll[TalentTemplateRow](db.q.Query(ctx,
		`SELECT id, hero_uid, template_id, name, style
		 FROM hero_talent_templates WHERE hero_uid = $1 ORDER BY template_id`, heroUID,
	))
}

func (db *DB) LoadTalentTemplate(ctx context.Context, heroUID int64, templateID int32) (*TalentTemplateRow, error) {
	return collectOne[TalentTemplateRow](db.q.Query(ctx,
		`SELECT id, hero_uid, template_id, name, style
		 FROM hero_talent_templates WHERE hero_uid = $1 AND template_id = $2`, heroUID, templateID,
	))
}

func (db *DB) CreateTalentTemplate(ctx context.Context, row *TalentTemplateRow) error {
	return db.q.QueryRow(ctx,
		`INSERT INTO hero_talent_templates (hero_uid, template_id, name, style)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		row.HeroUID, row.TemplateID, row.Name, row.Style,
	).Scan(&row.RowID)
}

func (db *DB) SetTemplateStyle(ctx context.Context, rowID int64, style int32) error {
	_, err := db.q.Exec(ctx, `UPDATE hero_talent_templates SET style = $1 WHERE id = $2`, style, rowID)
	return err
}

func (db *DB) TemplateCubes(ctx context.Context, rowID int64) ([]CubeRow, error) {
	return collectAll[CubeRow](db.q.Query(ctx,
		`SELECT cube_id, direction, pos_x, pos_y FROM hero_talent_template_cubes
		 WHERE template_row_id = $1 ORDER BY pos_x, pos_y`, rowID,
	))
}

func (db *DB) PutTemplateCube(ctx context.Context, rowID int64, c CubeRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_talent_template_cubes (template_row_id, cube_id, direction, pos_x, pos_y)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (template_row_id, pos_x, pos_y) DO UPDATE SET
		     cube_id = EXCLUDED.cube_id, direction = EXCLUDED.direction`,
		rowID, c.CubeID, c.Direction, c.X, c.Y,
	)
	return err
}

func (db *DB) DeleteTemplateCube(ctx context.Context, rowID int64, x, y int32) error {
	_, err := db.q.Exec(ctx,
		`DELETE FROM hero_talent_template_cubes WHERE template_row_id = $1 AND pos_x = $2 AND pos_y = $3`,
		rowID, x, y,
	)
	return err
}

// ReplaceTemplateCubes wipes and refills; call it inside InTx.
func (db *DB) ReplaceTemplateCubes(ctx context.Context, rowID int64, cubes []CubeRow) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM hero_talent_template_cubes WHERE template_row_id = $1`, rowID)
	for _, c := range cubes {
		batch.Queue(
			`INSERT INTO hero_talent_template_cubes (template_row_id, cube_id, direction, pos_x, pos_y)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (template_row_id, pos_x, pos_y) DO UPDATE SET
			     cube_id = EXCLUDED.cube_id, direction = EXCLUDED.direction`,
			rowID, c.CubeID, c.Direction, c.X, c.Y,
		)
	}
	return db.sendBatch(ctx, batch)
}

func (db *DB) ActiveCubes(ctx context.Context, heroUID int64) ([]CubeRow, error) {
	return collectAll[CubeRow](db.q.Query(ctx,
		`SELECT cube_id, direction, pos_x, pos_y FROM hero_talent_cubes
		 WHERE hero_uid = $1 ORDER BY pos_x, pos_y`, heroUID,
	))
}

func (db *DB) PutActiveCube(ctx context.Context, heroUID int64, c CubeRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_talent_cubes (hero_uid, cube_id, direction, pos_x, pos_y)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (hero_uid, pos_x, pos_y) DO UPDATE SET
		     cube_id = EXCLUDED.cube_id, direction = EXCLUDED.direction`,
		heroUID, c.CubeID, c.Direction, c.X, c.Y,
	)
	return err
}

func (db *DB) DeleteActiveCube(ctx context.Context, heroUID int64, x, y int32) error {
	_, err := db.q.Exec(ctx,
		`DELETE FROM hero_talent_cubes WHERE hero_uid = $1 AND pos_x = $2 AND pos_y = $3`,
		heroUID, x, y,
	)
	return err
}

func (db *DB) ReplaceActiveCubes(ctx context.Context, heroUID int64, cubes []CubeRow) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM hero_talent_cubes WHERE hero_uid = $1`, heroUID)
	for _, c := range cubes {
		batch.Queue(
			`INSERT INTO hero_talent_cubes (hero_uid, cube_id, direction, pos_x, pos_y)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (hero_uid, pos_x, pos_y) DO UPDATE SET
			     cube_id = EXCLUDED.cube_id, direction = EXCLUDED.direction`,
			heroUID, c.CubeID, c.Direction, c.X, c.Y,
		)
	}
	return db.sendBatch(ctx, batch)
}

func (db *DB) ListTalentStyles(ctx context.Context, heroUID int64) ([]int32, error) {
	return collectInt32s(db.q.Query(ctx,
		`SELECT style_id FROM hero_talent_styles WHERE hero_uid = $1 ORDER BY style_id`, heroUID,
	))
}

func (db *DB) HasTalentStyle(ctx context.Context, heroUID int64, style int32) (bool, error) {
	return db.exists(ctx,
		`SELECT 1 FROM hero_talent_styles WHERE hero_uid = $1 AND style_id = $2`, heroUID, style)
}

func (db *DB) AddTalentStyle(ctx context.Context, heroUID int64, style int32) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_talent_styles (hero_uid, style_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		heroUID, style,
	)
	return err
}
