package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/sonettogo/server/internal/persist"
)

func (s *Store) ListBlockPackages(_ context.Context, playerID int64) ([]persist.BlockPackageRow, error) {
	defer s.lock()()
	return sortedValues(s.st().blockPackages,
		func(k pk, _ persist.BlockPackageRow) bool { return k.owner == playerID },
		func(a, b persist.BlockPackageRow) int { return cmp.Compare(a.PackageID, b.PackageID) },
	), nil
}

func (s *Store) AddBlockPackage(_ context.Context, playerID int64, packageID int32) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, packageID}
	if _, ok := d.blockPackages[k]; !ok {
		d.blockPackages[k] = persist.BlockPackageRow{PackageID: packageID, Unused: []int32{}, Used: []int32{}}
	}
	return nil
}

func (s *Store) UpdateBlockPackage(_ context.Context, playerID int64, row persist.BlockPackageRow) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, row.PackageID}
	if _, ok := d.blockPackages[k]; ok {
		row.Unused = slices.Clone(row.Unused)
		row.Used = slices.Clone(row.Used)
		d.blockPackages[k] = row
	}
	return nil
}

func (s *Store) ListSpecialBlocks(_ context.Context, playerID int64) ([]persist.SpecialBlockRow, error) {
	defer s.lock()()
	return sortedValues(s.st().specialBlocks,
		func(k pk, _ persist.SpecialBlockRow) bool { return k.owner == playerID },
		func(a, b persist.SpecialBlockRow) int { return cmp.Compare(a.BlockID, b.BlockID) },
	), nil
}

func (s *Store) AddSpecialBlock(_ context.Context, playerID int64, blockID int32, now int64) error {
	defer s.lock()()
	d := s.st()
	k := pk{playerID, blockID}
	if _, ok := d.specialBlocks[k]; !ok {
		d.specialBlocks[k] = persist.SpecialBlockRow{BlockID: blockID, CreateTime: now}
	}
	return nil
}

func (s *Store) ListBlocks(_ context.Context, playerID int64) ([]persist.BlockRow, error) {
	defer s.lock()()
	return sortedValues(s.st().blocks,
		func(k pk, _ persist.BlockRow) bool { return k.owner == playerID },
		func(a, b persist.BlockRow) int { return cmp.Compare(a.BlockID, b.BlockID) },
	), nil
}

func (s *Store) SaveBlock(_ context.Context, playerID int64, row persist.BlockRow) error {
	defer s.lock()()
	s.st().blocks[pk{playerID, row.BlockID}] = row
	return nil
}

func (s *Store) DeleteBlock(_ context.Context, playerID int64, blockID int32) error {
	defer s.lock()()
	delete(s.st().blocks, pk{playerID, blockID})
	return nil
}

func (s *Store) ListBuildings(_ context.Context, playerID int64) ([]persist.BuildingRow, error) {
	defer s.lock()()
	return ownedList(s.st().buildings, playerID, func(b persist.BuildingRow) int64 { return b.UID }), nil
}

func (s *Store) SaveBuilding(_ context.Context, playerID int64, row persist.BuildingRow) (int64, error) {
	defer s.lock()()
	d := s.st()
	if row.UID == 0 {
		d.nextBuilding++
		row.UID = d.nextBuilding
	} else if cur, ok := d.buildings[row.UID]; ok {
		if cur.player != playerID {
			return row.UID, nil
		}
		row.CreatedAt = cur.row.CreatedAt
	} else {
		return row.UID, nil
	}
	d.buildings[row.UID] = owned[persist.BuildingRow]{playerID, row}
	return row.UID, nil
}

func (s *Store) DeleteBuilding(_ context.Context, playerID int64, uid int64) (bool, error) {
	defer s.lock()()
	d := s.st()
	if b, ok := d.buildings[uid]; ok && b.player == playerID {
		delete(d.buildings, uid)
		return true, nil
	}
	return false, nil
}

func (s *Store) ListRoads(_ context.Context, playerID int64) ([]persist.RoadRow, error) {
	defer s.lock()()
	return sortedValues(s.st().roads,
		func(k pk, _ persist.RoadRow) bool { return k.owner == playerID },
		func(a, b persist.RoadRow) int { return cmp.Compare(a.ID, b.ID) },
	), nil
}

func (s *Store) SaveRoad(_ context.Context, playerID int64, row persist.RoadRow) error {
	defer s.lock()()
	row.RoadPoints = slices.Clone(row.RoadPoints)
	s.st().roads[pk{playerID, row.ID}] = row
	return nil
}

func (s *Store) DeleteRoad(_ context.Context, playerID int64, id int32) error {
	defer s.lock()()
	delete(s.st().roads, pk{playerID, id})
	return nil
}

func (s *Store) RoomReset(_ context.Context, playerID int64) (bool, error) {
	defer s.lock()()
	return s.st().roomReset[playerID], nil
}

func (s *Store) SetRoomReset(_ context.Context, playerID int64, reset bool, _ int64) error {
	defer s.lock()()
	s.st().roomReset[playerID] = reset
	return nil
}
