package usecase

import (
	"context"

	"petShop/internal/domain"
)

// AddItem puts amount units of an item into the user's inventory, creating the
// entry on first acquisition.
func (s *Service) AddItem(ctx context.Context, userID, itemID, amount int) error {
	if amount <= 0 || amount > domain.MaxQuantity {
		return ErrInvalidAmount
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.repo.InTx(ctx, func(st Store) error {
		user, err := st.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		item, err := st.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		if err := checkCapacity(ctx, st, userID, itemID, amount); err != nil {
			return err
		}
		return st.AddInventory(ctx, userID, itemID, amount)
	})
}

// RemoveItem takes amount units out of the user's inventory. It reports false
// without changing anything when the entry is missing or holds too few units.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID, amount int) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	var removed bool
	err := s.repo.InTx(ctx, func(st Store) error {
		entry, err := st.GetInventoryEntry(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		removed, err = removeUnits(ctx, st, entry, amount)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Inventory lists the user's entries that match filter.
func (s *Service) Inventory(ctx context.Context, userID int, filter domain.InventoryFilter) ([]domain.InventoryEntry, error) {
	entries, err := s.repo.ListUserInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter == domain.FilterAll {
		return entries, nil
	}
	res := make([]domain.InventoryEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e.Item) {
			res = append(res, e)
		}
	}
	return res, nil
}

// checkCapacity rejects an add that would push the entry past
// domain.MaxQuantity.
func checkCapacity(ctx context.Context, st Store, userID, itemID, amount int) error {
	entry, err := st.GetInventoryEntry(ctx, userID, itemID)
	if err != nil {
		return err
	}
	held := 0
	if entry != nil {
		held = entry.Quantity
	}
	if !domain.CanHold(held, amount) {
		return ErrInvalidAmount
	}
	return nil
}

// removeUnits takes amount units off entry with a guarded decrement, so a
// stale read can never spend units that are gone. An entry that reaches zero
// is deleted rather than stored empty.
func removeUnits(ctx context.Context, st Store, entry *domain.InventoryEntry, amount int) (bool, error) {
	if entry.Quantity < amount {
		return false, nil
	}
	ok, err := st.DecrementInventory(ctx, entry.ID, amount)
	if err != nil || !ok {
		return false, err
	}
	entry.Quantity -= amount
	return true, nil
}
