package handler

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"go.uber.org/zap"
)

func (d *Deps) handleGetRoomInfo(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	blocks, err := d.Store.ListBlocks(ctx, playerID)
	if err != nil {
		return apperr.Storage("list blocks", err)
	}
	packages, err := d.Store.ListBlockPackages(ctx, playerID)
	if err != nil {
		return apperr.Storage("list block packages", err)
	}
	special, err := d.Store.ListSpecialBlocks(ctx, playerID)
	if err != nil {
		return apperr.Storage("list special blocks", err)
	}
	buildings, err := d.Store.ListBuildings(ctx, playerID)
	if err != nil {
		return apperr.Storage("list buildings", err)
	}
	roads, err := d.Store.ListRoads(ctx, playerID)
	if err != nil {
		return apperr.Storage("list roads", err)
	}
	reset, err := d.Store.RoomReset(ctx, playerID)
	if err != nil {
		return apperr.Storage("load room reset", err)
	}

	reply := &msg.GetRoomInfoReply{IsReset: reset}
	for _, b := range blocks {
		reply.Infos = append(reply.Infos, &msg.BlockInfo{
			BlockID:    b.BlockID,
			X:          b.X,
			Y:          b.Y,
			Rotate:     b.Rotate,
			WaterType:  b.WaterType,
			BlockColor: b.BlockColor,
		})
	}
	for _, p := range packages {
		reply.BlockPackages = append(reply.BlockPackages, &msg.BlockPackage{
			BlockPackageID: p.PackageID,
			UnusedBlockIDs: p.Unused,
			UsedBlockIDs:   p.Used,
		})
	}
	for _, sb := range special {
		reply.SpecialBlocks = append(reply.SpecialBlocks, &msg.SpecialBlock{BlockID: sb.BlockID, CreateTime: sb.CreateTime})
	}
	for _, b := range buildings {
		reply.BuildingInfos = append(reply.BuildingInfos, buildingMsg(b))
	}
	for _, r := range roads {
		reply.RoadInfos = append(reply.RoadInfos, &msg.RoadInfo{
			ID:               r.ID,
			FromType:         r.FromType,
			ToType:           r.ToType,
			RoadPoints:       r.RoadPoints,
			CritterUID:       r.CritterUID,
			BuildingUID:      r.BuildingUID,
			BuildingDefineID: r.BuildingDefineID,
			SkinID:           r.SkinID,
			BlockCleanType:   r.BlockCleanType,
		})
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleRoomPlaceBuilding(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.RoomPlaceBuildingRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	if req.DefineID == 0 {
		return apperr.Invalid("building define id missing")
	}
	now := d.now()
	row := persist.BuildingRow{
		DefineID:  req.DefineID,
		InUse:     true,
		X:         req.X,
		Y:         req.Y,
		Rotate:    req.Rotate,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	uid, err := d.Store.SaveBuilding(ctx, playerID, row)
	if err != nil {
		return apperr.Storage("save building", err)
	}
	row.UID = uid
	s.Log().Debug("building placed", zap.Int64("player", playerID), zap.Int64("uid", uid), zap.Int32("define", req.DefineID))
	return s.Reply(pkt.Cmd, &msg.RoomPlaceBuildingReply{BuildingInfo: buildingMsg(row)}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleRoomRemoveBuilding(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.RoomRemoveBuildingRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	found, err := d.Store.DeleteBuilding(ctx, playerID, req.UID)
	if err != nil {
		return apperr.Storage("delete building", err)
	}
	if !found {
		return apperr.Invalid("building %d not found", req.UID)
	}
	return s.Reply(pkt.Cmd, &msg.RoomRemoveBuildingReply{UID: req.UID}, apperr.StatusOK, pkt.UpTag)
}
