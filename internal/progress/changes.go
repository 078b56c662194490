package progress

import (
	"slices"

	"github.com/sonettogo/server/internal/data"
)

// Changes collects what a command touched so the caller can push refreshes
// once the transaction has committed.
type Changes struct {
	Items      []int32
	Currencies []int32
	Equips     []int64
	Heroes     []int32
	PowerItems bool
	Insight    bool

	// Materials is the reward digest for a material change push.
	Materials data.Effects
}

func (c *Changes) AddItem(id int32) {
	if !slices.Contains(c.Items, id) {
		c.Items = append(c.Items, id)
	}
}

func (c *Changes) AddCurrency(id int32) {
	if !slices.Contains(c.Currencies, id) {
		c.Currencies = append(c.Currencies, id)
	}
}

func (c *Changes) AddEquip(uid int64) {
	if !slices.Contains(c.Equips, uid) {
		c.Equips = append(c.Equips, uid)
	}
}

func (c *Changes) AddHero(id int32) {
	if !slices.Contains(c.Heroes, id) {
		c.Heroes = append(c.Heroes, id)
	}
}

// Merge folds o into c.
func (c *Changes) Merge(o Changes) {
	for _, id := range o.Items {
		c.AddItem(id)
	}
	for _, id := range o.Currencies {
		c.AddCurrency(id)
	}
	for _, uid := range o.Equips {
		c.AddEquip(uid)
	}
	for _, id := range o.Heroes {
		c.AddHero(id)
	}
	c.PowerItems = c.PowerItems || o.PowerItems
	c.Insight = c.Insight || o.Insight
	c.Materials = append(c.Materials, o.Materials...)
}
