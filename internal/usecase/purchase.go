package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"petShop/internal/domain"
	"petShop/internal/metrics"
)

// Purchase buys quantity units of an item. The debit, the inventory change and
// the purchase record commit together or not at all.
func (s *Service) Purchase(ctx context.Context, userID, itemID, quantity int) (*domain.Purchase, error) {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		metrics.RecordPurchase("invalid", 0)
		return nil, ErrInvalidAmount
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	var rec *domain.Purchase
	err := s.repo.InTx(ctx, func(st Store) error {
		item, err := st.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		if err := checkCapacity(ctx, st, userID, itemID, quantity); err != nil {
			return err
		}
		cost, err := s.cost(item, quantity)
		if err != nil {
			return err
		}

		ok, err := debit(ctx, st, userID, cost)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotEnoughCoins
		}
		if err := st.AddInventory(ctx, userID, itemID, quantity); err != nil {
			return err
		}

		p := &domain.Purchase{
			UserID:    userID,
			ItemID:    itemID,
			Quantity:  quantity,
			Amount:    cost,
			CreatedAt: time.Now().UTC(),
		}
		if p.ID, err = st.CreatePurchase(ctx, p); err != nil {
			return err
		}
		rec = p
		return nil
	})
	if err != nil {
		metrics.RecordPurchase(purchaseOutcome(err), 0)
		s.log.Debug().Err(err).Int("user_id", userID).Int("item_id", itemID).Int("quantity", quantity).Msg("purchase rejected")
		return nil, err
	}

	metrics.RecordPurchase("ok", rec.Amount)
	s.log.Info().
		Int("user_id", userID).
		Int("item_id", itemID).
		Int("quantity", quantity).
		Int("amount", rec.Amount).
		Msg("purchase completed")
	return rec, nil
}

// cost charges a single unit price unless per-unit charging is enabled.
func (s *Service) cost(item *domain.Item, quantity int) (int, error) {
	if !s.chargePerUnit {
		return item.Price, nil
	}
	if item.Price > 0 && quantity > math.MaxInt/item.Price {
		return 0, ErrInvalidAmount
	}
	return item.Price * quantity, nil
}

func purchaseOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotEnoughCoins):
		return "insufficient_funds"
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrUserNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid"
	default:
		return "error"
	}
}
