package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
)

// ListState distinguishes the four renderings of the saved-card list.
type ListState string

const (
	ListStateNoCustomer ListState = "no_customer"
	ListStateEmpty      ListState = "empty"
	ListStateLoaded     ListState = "loaded"
	ListStateError      ListState = "error"
)

// ConfirmFunc asks the user to approve a destructive action on a card.
type ConfirmFunc func(card domain.SavedCard) bool

// CardRow is one rendered card with its two derived actions. Rows are
// rebuilt on every refresh, so the closures always carry the identifier of
// the snapshot they were built from.
type CardRow struct {
	Card   domain.SavedCard
	Charge func(ctx context.Context, amount int64, description string) Result
	Delete func(ctx context.Context, confirm ConfirmFunc) Result
}

// CardListView is a full-replace snapshot: render it whole, discard the
// previous one.
type CardListView struct {
	State   ListState
	Message string
	Rows    []CardRow
}

// RenderFunc receives each new card list snapshot. The UI-binding layer
// registers one; a nil renderer drops snapshots produced by side-effect
// refreshes.
type RenderFunc func(view CardListView)

// buildCardList fetches a fresh snapshot and wires the per-row actions.
// Without a current customer it renders the informational state with no
// network call.
func (c *Controller) buildCardList(ctx context.Context) CardListView {
	customerID := c.session.Customer()
	if customerID == "" {
		return CardListView{State: ListStateNoCustomer, Message: "No customer selected."}
	}

	cards, err := c.gateway.ListPaymentMethods(ctx, customerID)
	if err != nil {
		c.log.Error("Failed to list payment methods",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return CardListView{State: ListStateError, Message: "Error loading cards."}
	}

	if len(cards) == 0 {
		return CardListView{State: ListStateEmpty, Message: "No saved cards. Save one above!"}
	}

	rows := make([]CardRow, 0, len(cards))
	for _, card := range cards {
		card := card
		rows = append(rows, CardRow{
			Card: card,
			Charge: func(ctx context.Context, amount int64, description string) Result {
				id := card.ID
				return c.ChargeCustomer(ctx, &id, amount, description)
			},
			Delete: func(ctx context.Context, confirm ConfirmFunc) Result {
				return c.DeleteCard(ctx, card.ID, func() bool {
					return confirm != nil && confirm(card)
				})
			},
		})
	}
	return CardListView{State: ListStateLoaded, Rows: rows}
}

func (c *Controller) emit(view CardListView) {
	if c.render != nil {
		c.render(view)
	}
}

// refreshCards refetches and re-renders the list as a side effect of a
// mutation. It bypasses the list control gate: the triggering saga already
// holds its own control.
func (c *Controller) refreshCards(ctx context.Context) {
	c.emit(c.buildCardList(ctx))
}
