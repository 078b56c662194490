package handler

import (
	"context"
	"math/rand/v2"
	gonet "net"
	"slices"
	"testing"
	"time"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/auth"
	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/persist/memstore"
	"github.com/sonettogo/server/internal/progress"
	"github.com/sonettogo/server/internal/servertime"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testNow     int64 = 1_760_000_000_000
	testHero    int32 = 3003
	rankItem    int32 = 1100
	goldID      int32 = 7
	monthCardID int32 = 610001
)

func testCatalogue() *data.Catalogue {
	t := &data.Tables{
		Character: []data.Character{
			{ID: testHero, Rare: 5, SkinID: 300301, DuplicateItem: "1#300300#1"},
			{ID: 3086, Rare: 5, SkinID: 308601},
		},
		CharacterLevel: []data.CharacterLevel{
			{HeroID: testHero, Level: 1, HP: 10},
			{HeroID: testHero, Level: 50, HP: 500, Atk: 50},
			{HeroID: testHero, Level: 60, HP: 600, Atk: 60},
			{HeroID: testHero, Level: 70, HP: 700, Atk: 70},
		},
		CharacterRank: []data.CharacterRank{
			{HeroID: testHero, Rank: 2, Consume: "2#7#100", Requirement: "1#30"},
			{HeroID: testHero, Rank: 3, Consume: "1#1100#2|2#7#500", Requirement: "1#60"},
		},
		CharacterTalent: []data.CharacterTalent{
			{HeroID: testHero, TalentID: 2, Consume: "1#1200#1|2#7#999999", Requirement: 2},
		},
		TalentScheme: []data.TalentScheme{
			{ID: 1, TalentID: 1, TalentMould: 0, TalenScheme: "11,0,0,0#12,1,1,0#bad"},
		},
		TalentStyleCost: []data.TalentStyleCost{
			{HeroID: testHero, StyleID: 2, Consume: "1#1300#1"},
		},
		Skin: []data.Skin{
			{ID: 300301, CharacterID: testHero},
			{ID: 300302, CharacterID: testHero, GainApproach: 1},
		},
		InsightItem: []data.InsightItem{{ID: 900, HeroRank: 2, Effect: "3#50"}},
		Item: []data.Item{
			{ID: 500, Effect: "1#9#2|2#2#100"},
			{ID: 501, Rewards: "1#1#1|1#2#1"},
		},
		MonthCard: []data.MonthCard{
			{ID: monthCardID, Days: 30, DailyBonus: "2#1#90|1#1100#1"},
		},
	}
	for lvl := int32(2); lvl <= 100; lvl++ {
		t.CharacterCosume = append(t.CharacterCosume, data.CharacterCosume{Level: lvl, Rare: 5, Cosume: "2#7#10"})
	}
	return data.NewCatalogue(t)
}

type harness struct {
	t        *testing.T
	store    *memstore.Store
	cat      *data.Catalogue
	cfg      *config.Config
	conn     gonet.Conn
	tag      uint8
	playerID int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zap.NewNop()
	store := memstore.New()
	cfg := &config.Config{
		Auth:   config.AuthConfig{AutoCreateAccounts: true},
		Charge: config.ChargeConfig{MonthCardSource: config.MonthCardFromDatabase},
	}
	authn := auth.NewAuthenticator(store, cfg.Auth, log)
	authn.HashCost = bcrypt.MinCost
	deps := &Deps{
		Store:     store,
		Catalogue: testCatalogue(),
		Auth:      authn,
		Config:    cfg,
		Clock:     servertime.NewFixed(testNow),
		Calendar:  servertime.Calendar{UTCOffsetHours: 8, ResetHour: 5},
		Log:       log,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}
	reg := packet.NewRegistry(log)
	RegisterAll(reg, deps)

	server, client := gonet.Pipe()
	sess := net.NewSession(server, 1, net.SessionConfig{InQueueSize: 8, OutQueueSize: 64, WriteTimeout: time.Second}, log)
	sess.Start(net.NewRouter(reg, log))
	t.Cleanup(func() {
		sess.Close()
		client.Close()
	})
	return &harness{t: t, store: store, cat: deps.Catalogue, cfg: cfg, conn: client}
}

func (h *harness) send(cmd packet.CmdID, body packet.Marshaler) uint8 {
	h.t.Helper()
	h.tag++
	var raw []byte
	if body != nil {
		raw = packet.Marshal(body)
	}
	h.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := h.conn.Write(net.EncodeRequest(cmd, h.tag, raw)); err != nil {
		h.t.Fatalf("write %s: %v", cmd, err)
	}
	return h.tag
}

func (h *harness) read() *net.Frame {
	h.t.Helper()
	h.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	f, err := net.ReadServerFrame(h.conn)
	if err != nil {
		h.t.Fatalf("read frame: %v", err)
	}
	return f
}

// expect reads the next frame, checks its command and OK status and decodes
// it into out when out is non-nil.
func (h *harness) expect(cmd packet.CmdID, out packet.Unmarshaler) *net.Frame {
	h.t.Helper()
	f := h.read()
	if f.Cmd != cmd {
		h.t.Fatalf("frame cmd = %s, want %s", f.Cmd, cmd)
	}
	if f.Status != apperr.StatusOK {
		h.t.Fatalf("%s status = %d", cmd, f.Status)
	}
	if out != nil {
		if err := packet.Unmarshal(f.Body, out); err != nil {
			h.t.Fatalf("decode %s: %v", cmd, err)
		}
	}
	return f
}

func (h *harness) expectStatus(cmd packet.CmdID, status uint16) {
	h.t.Helper()
	f := h.read()
	if f.Cmd != cmd || f.Status != status {
		h.t.Fatalf("frame = %s status %d, want %s status %d", f.Cmd, f.Status, cmd, status)
	}
}

func (h *harness) login() {
	h.t.Helper()
	h.send(packet.CmdLogin, &msg.LoginRequest{Account: "alice", Password: "secret"})
	var reply msg.LoginReply
	h.expect(packet.CmdLogin, &reply)
	if reply.PlayerID == 0 || !reply.IsNew || reply.ServerTime != testNow {
		h.t.Fatalf("login reply = %+v", reply)
	}
	h.playerID = reply.PlayerID
}

// addHero creates testHero at the given rank and level with its default
// template.
func (h *harness) addHero(rank, level int32) *persist.HeroRow {
	h.t.Helper()
	ctx := context.Background()
	row := progress.NewHero(h.cat, h.playerID, testHero, testNow)
	row.Rank, row.Level = rank, level
	if err := h.store.CreateHero(ctx, &row); err != nil {
		h.t.Fatal(err)
	}
	if err := progress.CreateDefaultTemplate(ctx, h.store, &row); err != nil {
		h.t.Fatal(err)
	}
	return &row
}

func (h *harness) hero() *persist.HeroRow {
	h.t.Helper()
	row, err := h.store.LoadHero(context.Background(), h.playerID, testHero)
	if err != nil || row == nil {
		h.t.Fatalf("load hero: %v %v", row, err)
	}
	return row
}

func (h *harness) itemQty(id int32) int32 {
	row, _ := h.store.LoadItem(context.Background(), h.playerID, id)
	if row == nil {
		return 0
	}
	return row.Quantity
}

func (h *harness) currencyQty(id int32) int32 {
	row, _ := h.store.LoadCurrency(context.Background(), h.playerID, id)
	if row == nil {
		return 0
	}
	return row.Quantity
}

func (h *harness) give(items, currencies map[int32]int32) {
	ctx := context.Background()
	for id, n := range items {
		h.store.AddItem(ctx, h.playerID, id, n, testNow)
	}
	for id, n := range currencies {
		h.store.AddCurrency(ctx, h.playerID, id, n, testNow)
	}
}

func TestCommandBeforeLogin(t *testing.T) {
	h := newHarness(t)
	h.send(packet.CmdHeroInfoList, nil)
	h.expectStatus(packet.CmdHeroInfoList, apperr.StatusNotLoggedIn)

	h.send(packet.CmdHeartbeat, nil)
	var hb msg.HeartbeatReply
	h.expect(packet.CmdHeartbeat, &hb)
	if hb.ServerTime != testNow {
		t.Fatalf("heartbeat = %d", hb.ServerTime)
	}
}

func TestLoginSeedsStarterKit(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.send(packet.CmdHeroInfoList, nil)
	var list msg.HeroInfoListReply
	h.expect(packet.CmdHeroInfoList, &list)
	if len(list.Heros) != len(progress.StarterHeroes) {
		t.Fatalf("heroes = %d", len(list.Heros))
	}
	if list.TouchCountLeft != defaultTouchCount {
		t.Fatalf("touch count = %d", list.TouchCountLeft)
	}
	for _, hi := range list.Heros {
		if hi.Level != 180 || hi.Rank != 4 || len(hi.TalentTemplates) != 1 {
			t.Fatalf("starter hero = %+v", hi)
		}
	}

	h.send(packet.CmdLogin, &msg.LoginRequest{Account: "alice", Password: "secret"})
	h.expectStatus(packet.CmdLogin, apperr.StatusInvalidRequest)
}

func TestRankUpHappyPath(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 60)
	h.give(map[int32]int32{rankItem: 2}, map[int32]int32{goldID: 500})

	tag := h.send(packet.CmdHeroRankUp, &msg.HeroRankUpRequest{HeroID: testHero})

	var items msg.ItemChangePush
	h.expect(packet.CmdItemChangePush, &items)
	if len(items.Items) != 1 || items.Items[0].ItemID != rankItem || items.Items[0].Quantity != 0 {
		t.Fatalf("item push = %+v", items.Items)
	}
	var cur msg.CurrencyChangePush
	h.expect(packet.CmdCurrencyChangePush, &cur)
	if len(cur.ChangeCurrency) != 1 || cur.ChangeCurrency[0].Quantity != 0 {
		t.Fatalf("currency push = %+v", cur.ChangeCurrency)
	}
	var hp msg.HeroUpdatePush
	h.expect(packet.CmdHeroUpdatePush, &hp)
	if len(hp.HeroUpdates) != 1 || hp.HeroUpdates[0].Rank != 3 || hp.HeroUpdates[0].Skin != 300302 {
		t.Fatalf("hero push = %+v", hp.HeroUpdates)
	}
	var reply msg.HeroRankUpReply
	f := h.expect(packet.CmdHeroRankUp, &reply)
	if f.UpTag != tag || reply.Value != 3 {
		t.Fatalf("reply = %+v tag %d", reply, f.UpTag)
	}

	hero := h.hero()
	if hero.Rank != 3 || hero.Level != 1 || hero.Skin != 300302 {
		t.Fatalf("hero = rank %d level %d skin %d", hero.Rank, hero.Level, hero.Skin)
	}
	owned, _ := h.store.HasOwnedSkin(context.Background(), h.playerID, 300302)
	if !owned {
		t.Fatal("insight skin not owned")
	}
	if h.itemQty(rankItem) != 0 || h.currencyQty(goldID) != 0 {
		t.Fatalf("left item %d gold %d", h.itemQty(rankItem), h.currencyQty(goldID))
	}
}

func TestRankUpBlockedByFunds(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 60)
	h.give(map[int32]int32{rankItem: 1}, map[int32]int32{goldID: 500})

	h.send(packet.CmdHeroRankUp, &msg.HeroRankUpRequest{HeroID: testHero})
	var items msg.ItemChangePush
	h.expect(packet.CmdItemChangePush, &items)
	if len(items.Items) != 1 || items.Items[0].ItemID != rankItem || items.Items[0].Quantity != 1 {
		t.Fatalf("item push = %+v", items.Items)
	}
	var reply msg.HeroRankUpReply
	h.expect(packet.CmdHeroRankUp, &reply)
	if reply.Value != 2 {
		t.Fatalf("rank = %d", reply.Value)
	}
	if got := h.hero(); got.Rank != 2 || got.Level != 60 {
		t.Fatalf("hero changed: %+v", got)
	}
	if h.itemQty(rankItem) != 1 || h.currencyQty(goldID) != 500 {
		t.Fatal("funds changed on a blocked rank up")
	}
}

func TestRankUpRequirementAndTerminal(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 59)
	h.give(map[int32]int32{rankItem: 2}, map[int32]int32{goldID: 500})

	// Level 59 does not match the required 60.
	h.send(packet.CmdHeroRankUp, &msg.HeroRankUpRequest{HeroID: testHero})
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.HeroRankUpReply
	h.expect(packet.CmdHeroRankUp, &reply)
	if reply.Value != 2 || h.itemQty(rankItem) != 2 {
		t.Fatalf("rank = %d items = %d", reply.Value, h.itemQty(rankItem))
	}

	// Starter heroes are at a rank with no next row.
	for range 2 {
		h.send(packet.CmdHeroRankUp, &msg.HeroRankUpRequest{HeroID: 3086})
		h.expect(packet.CmdHeroUpdatePush, nil)
		h.expect(packet.CmdHeroRankUp, &reply)
		if reply.Value != 4 {
			t.Fatalf("terminal rank = %d", reply.Value)
		}
	}

	h.send(packet.CmdHeroRankUp, &msg.HeroRankUpRequest{HeroID: 9999})
	h.expectStatus(packet.CmdHeroRankUp, apperr.StatusInvalidRequest)
}

func TestLevelUpMilestone(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 10)
	h.give(nil, map[int32]int32{goldID: 1000})

	h.send(packet.CmdHeroLevelUp, &msg.HeroLevelUpRequest{HeroID: testHero, Value: 60})
	var cur msg.CurrencyChangePush
	h.expect(packet.CmdCurrencyChangePush, &cur)
	var lp msg.HeroLevelUpUpdatePush
	h.expect(packet.CmdHeroLevelUpUpdatePush, &lp)
	if lp.NewLevel != 60 || lp.NewRank != 2 {
		t.Fatalf("level push = %+v", lp)
	}
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.HeroLevelUpReply
	h.expect(packet.CmdHeroLevelUp, &reply)
	if reply.Value != 60 {
		t.Fatalf("level = %d", reply.Value)
	}

	// 50 levels at 10 each.
	if got := h.currencyQty(goldID); got != 500 {
		t.Fatalf("gold = %d", got)
	}
	hero := h.hero()
	if hero.Level != 60 || hero.HP != 600 || hero.Attack != 60 {
		t.Fatalf("hero = level %d hp %d atk %d", hero.Level, hero.HP, hero.Attack)
	}

	// Same level again is an echo that spends nothing.
	h.send(packet.CmdHeroLevelUp, &msg.HeroLevelUpRequest{HeroID: testHero, Value: 60})
	h.expect(packet.CmdHeroLevelUpUpdatePush, nil)
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdHeroLevelUp, &reply)
	if reply.Value != 60 || h.currencyQty(goldID) != 500 {
		t.Fatalf("echo level %d gold %d", reply.Value, h.currencyQty(goldID))
	}

	h.send(packet.CmdHeroLevelUp, &msg.HeroLevelUpRequest{HeroID: testHero, Value: 30})
	h.expectStatus(packet.CmdHeroLevelUp, apperr.StatusInvalidRequest)
	h.send(packet.CmdHeroLevelUp, &msg.HeroLevelUpRequest{HeroID: testHero, Value: 181})
	h.expectStatus(packet.CmdHeroLevelUp, apperr.StatusInvalidRequest)
}

func TestLevelUpShortOfCurrency(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 10)
	h.give(nil, map[int32]int32{goldID: 499})

	h.send(packet.CmdHeroLevelUp, &msg.HeroLevelUpRequest{HeroID: testHero, Value: 60})
	var cur msg.CurrencyChangePush
	h.expect(packet.CmdCurrencyChangePush, &cur)
	if len(cur.ChangeCurrency) != 1 || cur.ChangeCurrency[0].CurrencyID != goldID || cur.ChangeCurrency[0].Quantity != 499 {
		t.Fatalf("currency push = %+v", cur.ChangeCurrency)
	}
	var reply msg.HeroLevelUpReply
	h.expect(packet.CmdHeroLevelUp, &reply)
	if reply.Value != 10 || h.hero().Level != 10 || h.currencyQty(goldID) != 499 {
		t.Fatalf("reply %d hero %d gold %d", reply.Value, h.hero().Level, h.currencyQty(goldID))
	}
}

func TestUpgradeSkill(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 10)

	h.send(packet.CmdHeroUpgradeSkill, &msg.HeroUpgradeSkillRequest{HeroID: testHero, Type: skillTypeEx})
	h.expectStatus(packet.CmdHeroUpgradeSkill, apperr.StatusInsufficientItems)

	h.give(map[int32]int32{300300: 10}, nil)
	h.send(packet.CmdHeroUpgradeSkill, &msg.HeroUpgradeSkillRequest{HeroID: testHero, Type: skillTypeEx, Consume: 7})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdHeroUpgradeSkill, nil)
	if got := h.hero().ExSkillLevel; got != progress.MaxExSkillLevel {
		t.Fatalf("ex skill = %d", got)
	}
	if h.itemQty(300300) != 3 {
		t.Fatalf("dupes left = %d", h.itemQty(300300))
	}

	h.send(packet.CmdHeroUpgradeSkill, &msg.HeroUpgradeSkillRequest{HeroID: testHero, Type: skillTypeEx})
	h.expectStatus(packet.CmdHeroUpgradeSkill, apperr.StatusInvalidRequest)
}

func TestMonthCardDailyClaim(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	expire := testNow/1000 + 10*86400
	h.store.PutMonthCard(ctx, h.playerID, persist.MonthCardRow{CardID: monthCardID, EndTime: expire})
	coins := h.currencyQty(1)

	h.send(packet.CmdGetMonthCardInfo, nil)
	var items msg.ItemChangePush
	h.expect(packet.CmdItemChangePush, &items)
	if len(items.Items) != 1 || items.Items[0].ItemID != rankItem || items.Items[0].Quantity != 1 {
		t.Fatalf("item push = %+v", items.Items)
	}
	h.expect(packet.CmdCurrencyChangePush, nil)
	var mat msg.MaterialChangePush
	h.expect(packet.CmdMaterialChangePush, &mat)
	if mat.GetApproach != msg.ApproachMonthCard || len(mat.DataList) != 2 {
		t.Fatalf("material push = %+v", mat)
	}
	var dot msg.UpdateRedDotPush
	h.expect(packet.CmdUpdateRedDotPush, &dot)
	if len(dot.RedDotInfos) != 1 || dot.RedDotInfos[0].DefineID != redDotMonthCard {
		t.Fatalf("red dot = %+v", dot.RedDotInfos)
	}
	var reply msg.GetMonthCardInfoReply
	h.expect(packet.CmdGetMonthCardInfo, &reply)
	if len(reply.Infos) != 1 || !reply.Infos[0].HasGetBonus || reply.Infos[0].ExpireTime != int32(expire) {
		t.Fatalf("reply = %+v", reply.Infos)
	}
	if h.currencyQty(1) != coins+90 || h.store.MonthCardClaims(h.playerID) != 1 {
		t.Fatalf("coins %d claims %d", h.currencyQty(1), h.store.MonthCardClaims(h.playerID))
	}

	// Same server day: only the reply.
	reply = msg.GetMonthCardInfoReply{}
	h.send(packet.CmdGetMonthCardInfo, nil)
	h.expect(packet.CmdGetMonthCardInfo, &reply)
	if len(reply.Infos) != 1 || !reply.Infos[0].HasGetBonus {
		t.Fatalf("repeat reply = %+v", reply.Infos)
	}
	if h.currencyQty(1) != coins+90 || h.store.MonthCardClaims(h.playerID) != 1 || h.itemQty(rankItem) != 1 {
		t.Fatal("duplicate claim granted again")
	}
}

func TestMonthCardFixture(t *testing.T) {
	h := newHarness(t)
	h.cfg.Charge = config.ChargeConfig{MonthCardSource: config.MonthCardFromFixture, FixtureCardID: 610001, FixtureCardExpire: 1999999999}
	h.login()

	h.send(packet.CmdGetMonthCardInfo, nil)
	h.expect(packet.CmdUpdateRedDotPush, nil)
	var reply msg.GetMonthCardInfoReply
	h.expect(packet.CmdGetMonthCardInfo, &reply)
	if len(reply.Infos) != 1 || reply.Infos[0].HasGetBonus || reply.Infos[0].ID != 610001 {
		t.Fatalf("reply = %+v", reply.Infos)
	}

	reply = msg.GetMonthCardInfoReply{}
	h.send(packet.CmdGetMonthCardInfo, nil)
	h.expect(packet.CmdGetMonthCardInfo, &reply)
	if len(reply.Infos) != 1 || !reply.Infos[0].HasGetBonus {
		t.Fatal("second call should report the bonus taken")
	}
}

func TestUseTalentTemplateSwitchesActiveCubes(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	hero := h.addHero(2, 10)

	c1 := persist.CubeRow{CubeID: 1, X: 0, Y: 0}
	c2 := persist.CubeRow{CubeID: 2, X: 1, Y: 1}
	c3 := persist.CubeRow{CubeID: 3, Direction: 1, X: 2, Y: 2}
	a, _ := h.store.LoadTalentTemplate(ctx, hero.UID, 1)
	h.store.ReplaceTemplateCubes(ctx, a.RowID, []persist.CubeRow{c1})
	h.store.ReplaceActiveCubes(ctx, hero.UID, []persist.CubeRow{c1})
	b := &persist.TalentTemplateRow{HeroUID: hero.UID, TemplateID: 2}
	h.store.CreateTalentTemplate(ctx, b)
	h.store.ReplaceTemplateCubes(ctx, b.RowID, []persist.CubeRow{c2, c3})

	h.send(packet.CmdUseTalentTemplate, &msg.UseTalentTemplateRequest{HeroID: testHero, TemplateID: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.UseTalentTemplateReply
	h.expect(packet.CmdUseTalentTemplate, &reply)
	if reply.TemplateInfo == nil || reply.TemplateInfo.ID != 2 || len(reply.TemplateInfo.TalentCubeInfos) != 2 {
		t.Fatalf("reply = %+v", reply)
	}

	active, _ := h.store.ActiveCubes(ctx, hero.UID)
	if !slices.Equal(active, []persist.CubeRow{c2, c3}) {
		t.Fatalf("active cubes = %+v", active)
	}
	if got := h.hero().UseTalentTemplateID; got != 2 {
		t.Fatalf("use template = %d", got)
	}

	h.send(packet.CmdUseTalentTemplate, &msg.UseTalentTemplateRequest{HeroID: testHero, TemplateID: 5})
	h.expectStatus(packet.CmdUseTalentTemplate, apperr.StatusInvalidRequest)
}

func TestPutTalentSchemeIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	hero := h.addHero(2, 10)

	var first, second msg.PutTalentSchemeReply
	h.send(packet.CmdPutTalentScheme, &msg.PutTalentSchemeRequest{HeroID: testHero, TalentID: 1, TemplateID: 1})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdPutTalentScheme, &first)
	h.send(packet.CmdPutTalentScheme, &msg.PutTalentSchemeRequest{HeroID: testHero, TalentID: 1, TemplateID: 1})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdPutTalentScheme, &second)

	if len(first.TemplateInfo.TalentCubeInfos) != 2 || len(second.TemplateInfo.TalentCubeInfos) != 2 {
		t.Fatalf("cubes = %d then %d", len(first.TemplateInfo.TalentCubeInfos), len(second.TemplateInfo.TalentCubeInfos))
	}
	// Template 1 is active, so the layout is mirrored.
	active, _ := h.store.ActiveCubes(ctx, hero.UID)
	if len(active) != 2 || active[1].CubeID != 12 {
		t.Fatalf("active = %+v", active)
	}

	h.send(packet.CmdPutTalentScheme, &msg.PutTalentSchemeRequest{HeroID: testHero, TalentID: 1, TalentMould: 9, TemplateID: 1})
	h.expectStatus(packet.CmdPutTalentScheme, apperr.StatusInvalidRequest)
}

func TestPutTalentCube(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	hero := h.addHero(2, 10)

	put := &msg.TalentCubeInfo{CubeID: 21, Direction: 2, PosX: 3, PosY: 4}
	h.send(packet.CmdPutTalentCube, &msg.PutTalentCubeRequest{HeroID: testHero, PutCubeInfo: put, TemplateID: 1})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdPutTalentCube, nil)
	active, _ := h.store.ActiveCubes(ctx, hero.UID)
	if len(active) != 1 || active[0].CubeID != 21 {
		t.Fatalf("active = %+v", active)
	}

	h.send(packet.CmdPutTalentCube, &msg.PutTalentCubeRequest{HeroID: testHero, GetCubeInfo: put, TemplateID: 1})
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.PutTalentCubeReply
	h.expect(packet.CmdPutTalentCube, &reply)
	if len(reply.TemplateInfo.TalentCubeInfos) != 0 {
		t.Fatalf("template cubes = %+v", reply.TemplateInfo.TalentCubeInfos)
	}
}

func TestEditInactiveTemplateLeavesActiveLayout(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	hero := h.addHero(2, 10)

	active := persist.CubeRow{CubeID: 5, X: 6, Y: 6}
	tpl1, _ := h.store.LoadTalentTemplate(ctx, hero.UID, 1)
	h.store.ReplaceTemplateCubes(ctx, tpl1.RowID, []persist.CubeRow{active})
	h.store.ReplaceActiveCubes(ctx, hero.UID, []persist.CubeRow{active})
	tpl2 := &persist.TalentTemplateRow{HeroUID: hero.UID, TemplateID: 2}
	if err := h.store.CreateTalentTemplate(ctx, tpl2); err != nil {
		t.Fatal(err)
	}
	inUse := h.hero().UseTalentTemplateID

	put := &msg.TalentCubeInfo{CubeID: 21, Direction: 2, PosX: 3, PosY: 4}
	h.send(packet.CmdPutTalentCube, &msg.PutTalentCubeRequest{HeroID: testHero, PutCubeInfo: put, TemplateID: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	var cubeReply msg.PutTalentCubeReply
	h.expect(packet.CmdPutTalentCube, &cubeReply)
	if len(cubeReply.TemplateInfo.TalentCubeInfos) != 1 || cubeReply.TemplateInfo.TalentCubeInfos[0].CubeID != 21 {
		t.Fatalf("template 2 cubes = %+v", cubeReply.TemplateInfo.TalentCubeInfos)
	}

	h.send(packet.CmdPutTalentScheme, &msg.PutTalentSchemeRequest{HeroID: testHero, TalentID: 1, TemplateID: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	var schemeReply msg.PutTalentSchemeReply
	h.expect(packet.CmdPutTalentScheme, &schemeReply)
	if len(schemeReply.TemplateInfo.TalentCubeInfos) != 2 {
		t.Fatalf("template 2 scheme cubes = %+v", schemeReply.TemplateInfo.TalentCubeInfos)
	}

	got, _ := h.store.ActiveCubes(ctx, hero.UID)
	if !slices.Equal(got, []persist.CubeRow{active}) {
		t.Fatalf("active layout changed: %+v", got)
	}
	if one, _ := h.store.TemplateCubes(ctx, tpl1.RowID); !slices.Equal(one, []persist.CubeRow{active}) {
		t.Fatalf("template 1 changed: %+v", one)
	}
	if h.hero().UseTalentTemplateID != inUse {
		t.Fatalf("use template = %d, want %d", h.hero().UseTalentTemplateID, inUse)
	}
}

func TestTalentStyles(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()
	hero := h.addHero(2, 10)

	h.send(packet.CmdUseTalentStyle, &msg.UseTalentStyleRequest{HeroID: testHero, TemplateID: 1, Style: 2})
	h.expectStatus(packet.CmdUseTalentStyle, apperr.StatusInvalidRequest)

	// Short of the style item: refresh it and echo.
	h.send(packet.CmdUnlockTalentStyle, &msg.UnlockTalentStyleRequest{HeroID: testHero, Value: 2})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdUnlockTalentStyle, nil)

	h.give(map[int32]int32{1300: 1}, nil)
	h.send(packet.CmdUnlockTalentStyle, &msg.UnlockTalentStyleRequest{HeroID: testHero, Value: 2})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdUnlockTalentStyle, nil)
	if got := h.hero().TalentStyleUnlock; got&(1<<2) == 0 {
		t.Fatalf("unlock mask = %b", got)
	}

	// Owned already: echo without spending.
	styleItems := h.itemQty(1300)
	h.send(packet.CmdUnlockTalentStyle, &msg.UnlockTalentStyleRequest{HeroID: testHero, Value: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdUnlockTalentStyle, nil)
	if h.itemQty(1300) != styleItems {
		t.Fatal("owned style charged again")
	}

	h.send(packet.CmdUseTalentStyle, &msg.UseTalentStyleRequest{HeroID: testHero, TemplateID: 1, Style: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdUseTalentStyle, nil)
	tpl, _ := h.store.LoadTalentTemplate(ctx, hero.UID, 1)
	if tpl.Style != 2 {
		t.Fatalf("template style = %d", tpl.Style)
	}
}

func TestHeroTalentUpChargesItemsOnly(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(2, 10)
	h.give(map[int32]int32{1200: 1}, nil)

	h.send(packet.CmdHeroTalentUp, &msg.HeroTalentUpRequest{HeroID: testHero})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.HeroTalentUpReply
	h.expect(packet.CmdHeroTalentUp, &reply)
	if reply.Value != 2 || h.itemQty(1200) != 0 {
		t.Fatalf("talent %d items %d", reply.Value, h.itemQty(1200))
	}

	// No row for talent 3.
	h.send(packet.CmdHeroTalentUp, &msg.HeroTalentUpRequest{HeroID: testHero})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdHeroTalentUp, &reply)
	if reply.Value != 2 {
		t.Fatalf("terminal talent = %d", reply.Value)
	}
}

func TestUseInsightItem(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(1, 10)
	uid, err := h.store.AddInsightItem(context.Background(), h.playerID, 900, 1, testNow)
	if err != nil {
		t.Fatal(err)
	}

	h.send(packet.CmdUseInsightItem, &msg.UseInsightItemRequest{UID: uid, HeroID: testHero})
	var items msg.ItemChangePush
	h.expect(packet.CmdItemChangePush, &items)
	if len(items.InsightItems) != 1 || items.InsightItems[0].Quantity != 0 {
		t.Fatalf("insight push = %+v", items.InsightItems)
	}
	h.expect(packet.CmdHeroUpdatePush, nil)
	var reply msg.UseInsightItemReply
	h.expect(packet.CmdUseInsightItem, &reply)
	if reply.UID != uid || reply.HeroID != testHero {
		t.Fatalf("reply = %+v", reply)
	}
	hero := h.hero()
	if hero.Rank != 3 || hero.Level != 50 || hero.Skin != 300302 {
		t.Fatalf("hero = rank %d level %d skin %d", hero.Rank, hero.Level, hero.Skin)
	}

	// Used up: reply only.
	h.send(packet.CmdUseInsightItem, &msg.UseInsightItemRequest{UID: uid, HeroID: testHero})
	h.expect(packet.CmdUseInsightItem, nil)

	h.send(packet.CmdUseInsightItem, &msg.UseInsightItemRequest{UID: uid + 100, HeroID: testHero})
	h.expectStatus(packet.CmdUseInsightItem, apperr.StatusInvalidRequest)
}

func TestUseItemGrantsEffect(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.give(map[int32]int32{500: 3}, nil)
	before := h.currencyQty(2)

	h.send(packet.CmdUseItem, &msg.UseItemRequest{MaterialID: 500, Quantity: 2})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdCurrencyChangePush, nil)
	var mat msg.MaterialChangePush
	h.expect(packet.CmdMaterialChangePush, &mat)
	if mat.GetApproach != msg.ApproachUseItem {
		t.Fatalf("approach = %d", mat.GetApproach)
	}
	var reply msg.UseItemReply
	h.expect(packet.CmdUseItem, &reply)
	if reply.MaterialID != 500 || len(reply.Gains) != 2 {
		t.Fatalf("reply = %+v", reply)
	}
	if h.itemQty(500) != 1 || h.itemQty(9) != 4 || h.currencyQty(2) != before+200 {
		t.Fatalf("box %d item9 %d cur2 %d", h.itemQty(500), h.itemQty(9), h.currencyQty(2))
	}

	h.send(packet.CmdUseItem, &msg.UseItemRequest{MaterialID: 500, Quantity: 2})
	h.expectStatus(packet.CmdUseItem, apperr.StatusInsufficientItems)
	if h.itemQty(500) != 1 {
		t.Fatal("failed use consumed items")
	}
}

func TestUseItemQuantityBoundByHolding(t *testing.T) {
	h := newHarness(t)
	h.login()

	// Nothing held: refused before the reward pool is rolled.
	h.send(packet.CmdUseItem, &msg.UseItemRequest{MaterialID: 501, Quantity: 2_000_000_000})
	h.expectStatus(packet.CmdUseItem, apperr.StatusInsufficientItems)

	// Held, but the scaled effect does not fit in int32.
	h.give(map[int32]int32{500: 30_000_000}, nil)
	before := h.currencyQty(2)
	h.send(packet.CmdUseItem, &msg.UseItemRequest{MaterialID: 500, Quantity: 30_000_000})
	h.expectStatus(packet.CmdUseItem, apperr.StatusInvalidRequest)
	if h.itemQty(500) != 30_000_000 || h.currencyQty(2) != before {
		t.Fatalf("overflowing use changed holdings: box %d cur2 %d", h.itemQty(500), h.currencyQty(2))
	}

	h.give(map[int32]int32{501: 1000}, nil)
	h.send(packet.CmdUseItem, &msg.UseItemRequest{MaterialID: 501, Quantity: 1000})
	h.expect(packet.CmdItemChangePush, nil)
	h.expect(packet.CmdMaterialChangePush, nil)
	var reply msg.UseItemReply
	h.expect(packet.CmdUseItem, &reply)
	var total int32
	for _, g := range reply.Gains {
		total += g.Quantity
	}
	if len(reply.Gains) > 2 || total != 1000 || h.itemQty(1)+h.itemQty(2) != 1000 {
		t.Fatalf("gains = %+v", reply.Gains)
	}
}

func TestEquipLockPushesBeforeReply(t *testing.T) {
	h := newHarness(t)
	h.login()
	equips, _ := h.store.ListEquips(context.Background(), h.playerID)
	if len(equips) == 0 {
		t.Fatal("no starter equips")
	}
	uid := equips[0].UID

	h.send(packet.CmdEquipLock, &msg.EquipLockRequest{TargetUID: uid, Lock: true})
	var push msg.EquipUpdatePush
	h.expect(packet.CmdEquipUpdatePush, &push)
	if len(push.Equips) != 1 || !push.Equips[0].IsLock {
		t.Fatalf("equip push = %+v", push.Equips)
	}
	h.expect(packet.CmdEquipLock, nil)

	h.send(packet.CmdEquipLock, &msg.EquipLockRequest{TargetUID: 1, Lock: true})
	h.expectStatus(packet.CmdEquipLock, apperr.StatusInvalidRequest)
}

func TestHeroFlags(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.addHero(1, 1)

	h.send(packet.CmdUnMarkIsNew, &msg.UnMarkIsNewRequest{HeroID: testHero})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdUnMarkIsNew, nil)

	h.send(packet.CmdDestinyStoneUse, &msg.DestinyStoneUseRequest{HeroID: testHero, Value: 42})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdDestinyStoneUse, nil)

	h.send(packet.CmdChoiceHero3123Weapon, &msg.ChoiceHero3123WeaponRequest{HeroID: testHero, MainID: 1, SubID: 2})
	h.expect(packet.CmdHeroUpdatePush, nil)
	h.expect(packet.CmdChoiceHero3123Weapon, nil)

	hero := h.hero()
	if hero.IsNew || hero.DestinyStone != 42 || hero.SpecialEquip != "1#2" {
		t.Fatalf("hero = new %v stone %d special %q", hero.IsNew, hero.DestinyStone, hero.SpecialEquip)
	}

	h.send(packet.CmdHeroRedDotRead, &msg.HeroRedDotReadRequest{})
	var dot msg.HeroRedDotReadReply
	h.expect(packet.CmdHeroRedDotRead, &dot)
	if dot.HeroID != redDotFallbackHero || dot.Value != redDotReadValue {
		t.Fatalf("red dot reply = %+v", dot)
	}
}

func TestRoomBuildings(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.send(packet.CmdRoomPlaceBuilding, &msg.RoomPlaceBuildingRequest{DefineID: 7, X: 1, Y: 2, Rotate: 1})
	var placed msg.RoomPlaceBuildingReply
	h.expect(packet.CmdRoomPlaceBuilding, &placed)
	if placed.BuildingInfo == nil || placed.BuildingInfo.UID == 0 {
		t.Fatalf("placed = %+v", placed.BuildingInfo)
	}

	h.send(packet.CmdGetRoomInfo, nil)
	var room msg.GetRoomInfoReply
	h.expect(packet.CmdGetRoomInfo, &room)
	if len(room.BuildingInfos) != 1 || room.BuildingInfos[0].DefineID != 7 {
		t.Fatalf("room = %+v", room.BuildingInfos)
	}

	uid := placed.BuildingInfo.UID
	h.send(packet.CmdRoomRemoveBuilding, &msg.RoomRemoveBuildingRequest{UID: uid})
	h.expect(packet.CmdRoomRemoveBuilding, nil)
	h.send(packet.CmdRoomRemoveBuilding, &msg.RoomRemoveBuildingRequest{UID: uid})
	h.expectStatus(packet.CmdRoomRemoveBuilding, apperr.StatusInvalidRequest)
}

func TestMiscAcks(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.send(packet.CmdDeleteOfflineMsg, nil)
	h.expect(packet.CmdChatMsgPush, nil)
	h.expect(packet.CmdDeleteOfflineMsg, nil)

	h.send(packet.CmdFightEndFight, &msg.EndFightRequest{})
	h.expectStatus(packet.CmdFightEndFight, apperr.StatusInvalidRequest)
	abort := true
	h.send(packet.CmdFightEndFight, &msg.EndFightRequest{IsAbort: &abort})
	h.expect(packet.CmdFightEndFight, nil)

	h.send(packet.CmdGetChargePushInfo, nil)
	f := h.expect(packet.CmdGetChargePushInfo, nil)
	if len(f.Body) != 0 {
		t.Fatalf("charge push info body = %x", f.Body)
	}

	h.send(packet.CmdGetItemList, nil)
	var items msg.GetItemListReply
	h.expect(packet.CmdGetItemList, &items)
	if len(items.Items) != len(progress.StarterItems) {
		t.Fatalf("items = %d", len(items.Items))
	}
}

func TestChargeInfoAndHeartbeat(t *testing.T) {
	h := newHarness(t)

	// Heartbeat is allowed before login.
	h.send(packet.CmdHeartbeat, nil)
	var hb msg.HeartbeatReply
	h.expect(packet.CmdHeartbeat, &hb)
	if hb.ServerTime != testNow {
		t.Fatalf("server time = %d", hb.ServerTime)
	}

	h.login()

	h.send(packet.CmdGetChargeInfo, nil)
	var info msg.GetChargeInfoReply
	h.expect(packet.CmdGetChargeInfo, &info)
	if len(info.Infos) != 0 {
		t.Fatalf("fresh player has charges: %+v", info.Infos)
	}

	h.send(packet.CmdReadChargeNew, &msg.ReadChargeNewRequest{GoodsIDs: []int32{610001, 610002}})
	var read msg.ReadChargeNewReply
	h.expect(packet.CmdReadChargeNew, &read)
	if len(read.GoodsIDs) != 2 || read.GoodsIDs[0] != 610001 || read.GoodsIDs[1] != 610002 {
		t.Fatalf("goods ids = %v", read.GoodsIDs)
	}
}
