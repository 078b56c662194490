package memstore

import (
	"cmp"
	"context"

	"github.com/sonettogo/server/internal/persist"
)

func cubeOrder(a, b persist.CubeRow) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

func (s *Store) ListTalentTemplates(_ context.Context, heroUID int64) ([]persist.TalentTemplateRow, error) {
	defer s.lock()()
	return sortedValues(s.st().templates,
		func(_ int64, t persist.TalentTemplateRow) bool { return t.HeroUID == heroUID },
		func(a, b persist.TalentTemplateRow) int { return cmp.Compare(a.TemplateID, b.TemplateID) },
	), nil
}

func (s *Store) LoadTalentTemplate(_ context.Context, heroUID int64, templateID int32) (*persist.TalentTemplateRow, error) {
	defer s.lock()()
	for _, t := range s.st().templates {
		if t.HeroUID == heroUID && t.TemplateID == templateID {
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateTalentTemplate(_ context.Context, row *persist.TalentTemplateRow) error {
	defer s.lock()()
	d := s.st()
	for _, t := range d.templates {
		if t.HeroUID == row.HeroUID && t.TemplateID == row.TemplateID {
			row.RowID = t.RowID
			return nil
		}
	}
	d.nextTemplate++
	row.RowID = d.nextTemplate
	d.templates[row.RowID] = *row
	return nil
}

func (s *Store) SetTemplateStyle(_ context.Context, rowID int64, style int32) error {
	defer s.lock()()
	d := s.st()
	if t, ok := d.templates[rowID]; ok {
		t.Style = style
		d.templates[rowID] = t
	}
	return nil
}

func (s *Store) TemplateCubes(_ context.Context, rowID int64) ([]persist.CubeRow, error) {
	defer s.lock()()
	return cubesOf(s.st().templateCubes, rowID), nil
}

func (s *Store) PutTemplateCube(_ context.Context, rowID int64, c persist.CubeRow) error {
	defer s.lock()()
	s.st().templateCubes[cubeKey{rowID, c.X, c.Y}] = c
	return nil
}

func (s *Store) DeleteTemplateCube(_ context.Context, rowID int64, x, y int32) error {
	defer s.lock()()
	delete(s.st().templateCubes, cubeKey{rowID, x, y})
	return nil
}

func (s *Store) ReplaceTemplateCubes(_ context.Context, rowID int64, cubes []persist.CubeRow) error {
	defer s.lock()()
	replaceCubes(s.st().templateCubes, rowID, cubes)
	return nil
}

func (s *Store) ActiveCubes(_ context.Context, heroUID int64) ([]persist.CubeRow, error) {
	defer s.lock()()
	return cubesOf(s.st().activeCubes, heroUID), nil
}

func (s *Store) PutActiveCube(_ context.Context, heroUID int64, c persist.CubeRow) error {
	defer s.lock()()
	s.st().activeCubes[cubeKey{heroUID, c.X, c.Y}] = c
	return nil
}

func (s *Store) DeleteActiveCube(_ context.Context, heroUID int64, x, y int32) error {
	defer s.lock()()
	delete(s.st().activeCubes, cubeKey{heroUID, x, y})
	return nil
}

func (s *Store) ReplaceActiveCubes(_ context.Context, heroUID int64, cubes []persist.CubeRow) error {
	defer s.lock()()
	replaceCubes(s.st().activeCubes, heroUID, cubes)
	return nil
}

func (s *Store) ListTalentStyles(_ context.Context, heroUID int64) ([]int32, error) {
	defer s.lock()()
	return keysOf(s.st().styles, heroUID), nil
}

func (s *Store) HasTalentStyle(_ context.Context, heroUID int64, style int32) (bool, error) {
	defer s.lock()()
	_, ok := s.st().styles[pk{heroUID, style}]
	return ok, nil
}

func (s *Store) AddTalentStyle(_ context.Context, heroUID int64, style int32) error {
	defer s.lock()()
	s.st().styles[pk{heroUID, style}] = struct{}{}
	return nil
}

func cubesOf(m map[cubeKey]persist.CubeRow, owner int64) []persist.CubeRow {
	return sortedValues(m,
		func(k cubeKey, _ persist.CubeRow) bool { return k.owner == owner },
		cubeOrder,
	)
}

func replaceCubes(m map[cubeKey]persist.CubeRow, owner int64, cubes []persist.CubeRow) {
	for k := range m {
		if k.owner == owner {
			delete(m, k)
		}
	}
	for _, c := range cubes {
		m[cubeKey{owner, c.X, c.Y}] = c
	}
}
