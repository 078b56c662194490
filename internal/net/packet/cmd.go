package packet

import "fmt"

// CmdID identifies a request, its reply, or a push on the wire.
type CmdID uint16

// Requests. The reply reuses the request's id.
const (
	CmdLogin     CmdID = 1001
	CmdHeartbeat CmdID = 1002

	CmdGetChargeInfo     CmdID = 2001
	CmdGetMonthCardInfo  CmdID = 2002
	CmdReadChargeNew     CmdID = 2003
	CmdGetChargePushInfo CmdID = 2004

	CmdHeroInfoList         CmdID = 3001
	CmdHeroLevelUp          CmdID = 3002
	CmdHeroRankUp           CmdID = 3003
	CmdHeroUpgradeSkill     CmdID = 3004
	CmdHeroRedDotRead       CmdID = 3005
	CmdUnMarkIsNew          CmdID = 3006
	CmdDestinyStoneUse      CmdID = 3007
	CmdChoiceHero3123Weapon CmdID = 3008

	CmdEquipLock    CmdID = 3101
	CmdGetEquipInfo CmdID = 3102

	CmdGetItemList    CmdID = 3201
	CmdUseInsightItem CmdID = 3202
	CmdUseItem        CmdID = 3203

	CmdDeleteOfflineMsg CmdID = 3301
	CmdFightEndFight    CmdID = 3401

	CmdTalentStyleRead     CmdID = 3501
	CmdHeroTalentStyleStat CmdID = 3502
	CmdUnlockTalentStyle   CmdID = 3503
	CmdUseTalentStyle      CmdID = 3504
	CmdHeroTalentUp        CmdID = 3505
	CmdPutTalentCube       CmdID = 3506
	CmdPutTalentScheme     CmdID = 3507
	CmdUseTalentTemplate   CmdID = 3508

	CmdGetRoomInfo        CmdID = 3601
	CmdRoomPlaceBuilding  CmdID = 3602
	CmdRoomRemoveBuilding CmdID = 3603
)

// Pushes.
const (
	CmdHeroUpdatePush        CmdID = 5001
	CmdHeroLevelUpUpdatePush CmdID = 5002
	CmdItemChangePush        CmdID = 5003
	CmdCurrencyChangePush    CmdID = 5004
	CmdEquipUpdatePush       CmdID = 5005
	CmdMaterialChangePush    CmdID = 5006
	CmdUpdateRedDotPush      CmdID = 5007
	CmdChatMsgPush           CmdID = 5008
)

var cmdNames = map[CmdID]string{
	CmdLogin:                 "Login",
	CmdHeartbeat:             "Heartbeat",
	CmdGetChargeInfo:         "GetChargeInfo",
	CmdGetMonthCardInfo:      "GetMonthCardInfo",
	CmdReadChargeNew:         "ReadChargeNew",
	CmdGetChargePushInfo:     "GetChargePushInfo",
	CmdHeroInfoList:          "HeroInfoList",
	CmdHeroLevelUp:           "HeroLevelUp",
	CmdHeroRankUp:            "HeroRankUp",
	CmdHeroUpgradeSkill:      "HeroUpgradeSkill",
	CmdHeroRedDotRead:        "HeroRedDotRead",
	CmdUnMarkIsNew:           "UnMarkIsNew",
	CmdDestinyStoneUse:       "DestinyStoneUse",
	CmdChoiceHero3123Weapon:  "ChoiceHero3123Weapon",
	CmdEquipLock:             "EquipLock",
	CmdGetEquipInfo:          "GetEquipInfo",
	CmdGetItemList:           "GetItemList",
	CmdUseInsightItem:        "UseInsightItem",
	CmdUseItem:               "UseItem",
	CmdDeleteOfflineMsg:      "DeleteOfflineMsg",
	CmdFightEndFight:         "FightEndFight",
	CmdTalentStyleRead:       "TalentStyleRead",
	CmdHeroTalentStyleStat:   "HeroTalentStyleStat",
	CmdUnlockTalentStyle:     "UnlockTalentStyle",
	CmdUseTalentStyle:        "UseTalentStyle",
	CmdHeroTalentUp:          "HeroTalentUp",
	CmdPutTalentCube:         "PutTalentCube",
	CmdPutTalentScheme:       "PutTalentScheme",
	CmdUseTalentTemplate:     "UseTalentTemplate",
	CmdGetRoomInfo:           "GetRoomInfo",
	CmdRoomPlaceBuilding:     "RoomPlaceBuilding",
	CmdRoomRemoveBuilding:    "RoomRemoveBuilding",
	CmdHeroUpdatePush:        "HeroUpdatePush",
	CmdHeroLevelUpUpdatePush: "HeroLevelUpUpdatePush",
	CmdItemChangePush:        "ItemChangePush",
	CmdCurrencyChangePush:    "CurrencyChangePush",
	CmdEquipUpdatePush:       "EquipUpdatePush",
	CmdMaterialChangePush:    "MaterialChangePush",
	CmdUpdateRedDotPush:      "UpdateRedDotPush",
	CmdChatMsgPush:           "ChatMsgPush",
}

func (c CmdID) String() string {
	if name, ok := cmdNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Cmd(%d)", uint16(c))
}
