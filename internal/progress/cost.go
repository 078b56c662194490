// Package progress holds the shared steps of progression commands: pricing a
// consume string, checking holdings, debiting, granting rewards and the
// rank-3 insight skin unlock. Mutating helpers expect a transaction-bound
// store; the caller emits pushes after the transaction commits.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/persist"
	"go.uber.org/zap"
)

// Cost is a priced requirement split into item and currency lines. Lines of
// other kinds in the consume string are not charged.
type Cost struct {
	Items      data.Effects
	Currencies data.Effects
}

// Price parses a consume string.
func Price(consume string, log *zap.Logger) Cost {
	es := data.ParseEffects(consume, log).Merge()
	return Cost{Items: es.Of(data.EffectItem), Currencies: es.Of(data.EffectCurrency)}
}

// Plus returns the sum of two costs.
func (c Cost) Plus(o Cost) Cost {
	return Cost{
		Items:      append(append(data.Effects{}, c.Items...), o.Items...).Merge(),
		Currencies: append(append(data.Effects{}, c.Currencies...), o.Currencies...).Merge(),
	}
}

// CurrenciesOnly drops the item lines.
func (c Cost) CurrenciesOnly() Cost { return Cost{Currencies: c.Currencies} }

// ItemsOnly drops the currency lines.
func (c Cost) ItemsOnly() Cost { return Cost{Items: c.Items} }

func (c Cost) Empty() bool { return len(c.Items) == 0 && len(c.Currencies) == 0 }

// Shortfall names the first resource the player cannot cover.
type Shortfall struct {
	Kind data.EffectKind
	ID   int32
	Have int32
	Need int32
}

// Check reads every holding the cost touches. It returns the first
// shortfall, items before currencies, or nil when everything is covered.
func (c Cost) Check(ctx context.Context, inv persist.InventoryStore, playerID int64) (*Shortfall, error) {
	for _, line := range c.Items {
		row, err := inv.LoadItem(ctx, playerID, line.ID)
		if err != nil {
			return nil, apperr.Storage("load item", err)
		}
		var have int32
		if row != nil {
			have = row.Quantity
		}
		if have < line.Amount {
			return &Shortfall{Kind: data.EffectItem, ID: line.ID, Have: have, Need: line.Amount}, nil
		}
	}
	for _, line := range c.Currencies {
		row, err := inv.LoadCurrency(ctx, playerID, line.ID)
		if err != nil {
			return nil, apperr.Storage("load currency", err)
		}
		var have int32
		if row != nil {
			have = row.Quantity
		}
		if have < line.Amount {
			return &Shortfall{Kind: data.EffectCurrency, ID: line.ID, Have: have, Need: line.Amount}, nil
		}
	}
	return nil, nil
}

// Debit removes every cost line. A guarded update that finds too little
// fails the whole call, so run it in InTx.
func (c Cost) Debit(ctx context.Context, tx persist.Store, playerID int64, now int64) (Changes, error) {
	var ch Changes
	for _, line := range c.Items {
		if line.Amount <= 0 {
			continue
		}
		if err := tx.RemoveItem(ctx, playerID, line.ID, line.Amount, now); err != nil {
			if errors.Is(err, persist.ErrInsufficient) {
				return ch, &apperr.Error{Kind: apperr.KindInsufficientItems, Message: fmt.Sprintf("item %d", line.ID)}
			}
			return ch, apperr.Storage("remove item", err)
		}
		ch.AddItem(line.ID)
	}
	for _, line := range c.Currencies {
		if line.Amount <= 0 {
			continue
		}
		if err := tx.SpendCurrency(ctx, playerID, line.ID, line.Amount); err != nil {
			if errors.Is(err, persist.ErrInsufficient) {
				return ch, &apperr.Error{Kind: apperr.KindInsufficientCurrency, Message: fmt.Sprintf("currency %d", line.ID)}
			}
			return ch, apperr.Storage("spend currency", err)
		}
		ch.AddCurrency(line.ID)
	}
	return ch, nil
}
