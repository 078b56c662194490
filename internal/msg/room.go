package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type BlockPackage struct {
	BlockPackageID int32
	UnusedBlockIDs []int32
	UsedBlockIDs   []int32
}

func (m *BlockPackage) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.BlockPackageID)
	w.PackedInt32s(2, m.UnusedBlockIDs)
	w.PackedInt32s(3, m.UsedBlockIDs)
}

type BlockInfo struct {
	BlockID    int32
	X          int32
	Y          int32
	Rotate     int32
	WaterType  int32
	BlockColor int32
}

func (m *BlockInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.BlockID)
	w.Int32(2, m.X)
	w.Int32(3, m.Y)
	w.Int32(4, m.Rotate)
	w.Int32(5, m.WaterType)
	w.Int32(6, m.BlockColor)
}

type SpecialBlock struct {
	BlockID    int32
	CreateTime int64
}

func (m *SpecialBlock) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.BlockID)
	w.Int64(2, m.CreateTime)
}

type BuildingInfo struct {
	UID      int64
	DefineID int32
	InUse    bool
	X        int32
	Y        int32
	Rotate   int32
	Level    int32
}

func (m *BuildingInfo) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.UID)
	w.Int32(2, m.DefineID)
	w.Bool(3, m.InUse)
	w.Int32(4, m.X)
	w.Int32(5, m.Y)
	w.Int32(6, m.Rotate)
	w.Int32(7, m.Level)
}

func (m *BuildingInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.UID = r.Int64()
		case 2:
			m.DefineID = r.Int32()
		case 3:
			m.InUse = r.Bool()
		case 4:
			m.X = r.Int32()
		case 5:
			m.Y = r.Int32()
		case 6:
			m.Rotate = r.Int32()
		case 7:
			m.Level = r.Int32()
		default:
			r.Skip()
		}
	})
}

type RoadInfo struct {
	ID               int32
	FromType         int32
	ToType           int32
	RoadPoints       []byte
	CritterUID       int64
	BuildingUID      int64
	BuildingDefineID int32
	SkinID           int32
	BlockCleanType   int32
}

func (m *RoadInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.ID)
	w.Int32(2, m.FromType)
	w.Int32(3, m.ToType)
	w.Bytes(4, m.RoadPoints)
	w.Int64(5, m.CritterUID)
	w.Int64(6, m.BuildingUID)
	w.Int32(7, m.BuildingDefineID)
	w.Int32(8, m.SkinID)
	w.Int32(9, m.BlockCleanType)
}

type GetRoomInfoReply struct {
	Infos         []*BlockInfo
	BlockPackages []*BlockPackage
	SpecialBlocks []*SpecialBlock
	BuildingInfos []*BuildingInfo
	RoadInfos     []*RoadInfo
	IsReset       bool
}

func (m *GetRoomInfoReply) MarshalWire(w *packet.Writer) {
	for _, b := range m.Infos {
		w.Message(1, b)
	}
	for _, p := range m.BlockPackages {
		w.Message(2, p)
	}
	for _, s := range m.SpecialBlocks {
		w.Message(3, s)
	}
	for _, b := range m.BuildingInfos {
		w.Message(4, b)
	}
	for _, rd := range m.RoadInfos {
		w.Message(5, rd)
	}
	w.Bool(6, m.IsReset)
}

func (m *GetRoomInfoReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 4:
			b := &BuildingInfo{}
			r.Message(b)
			m.BuildingInfos = append(m.BuildingInfos, b)
		case 6:
			m.IsReset = r.Bool()
		default:
			r.Skip()
		}
	})
}

type RoomPlaceBuildingRequest struct {
	DefineID int32
	X        int32
	Y        int32
	Rotate   int32
}

func (m *RoomPlaceBuildingRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.DefineID)
	w.Int32(2, m.X)
	w.Int32(3, m.Y)
	w.Int32(4, m.Rotate)
}

func (m *RoomPlaceBuildingRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.DefineID = r.Int32()
		case 2:
			m.X = r.Int32()
		case 3:
			m.Y = r.Int32()
		case 4:
			m.Rotate = r.Int32()
		default:
			r.Skip()
		}
	})
}

type RoomPlaceBuildingReply struct {
	BuildingInfo *BuildingInfo
}

func (m *RoomPlaceBuildingReply) MarshalWire(w *packet.Writer) {
	if m.BuildingInfo != nil {
		w.Message(1, m.BuildingInfo)
	}
}

func (m *RoomPlaceBuildingReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num == 1 {
			m.BuildingInfo = &BuildingInfo{}
			r.Message(m.BuildingInfo)
			return
		}
		r.Skip()
	})
}

type RoomRemoveBuildingRequest struct {
	UID int64
}

func (m *RoomRemoveBuildingRequest) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.UID)
}

func (m *RoomRemoveBuildingRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num == 1 {
			m.UID = r.Int64()
			return
		}
		r.Skip()
	})
}

type RoomRemoveBuildingReply = RoomRemoveBuildingRequest
