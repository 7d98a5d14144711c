package usecase

import (
	"context"

	"petShop/internal/metrics"
)

// Feed gives the pet one unit of a food item from the owner's inventory. It
// reports false when the owner holds no such item or the item is not food.
// The item's deltas are added as is; bounds are applied when the pet is saved.
func (s *Service) Feed(ctx context.Context, userID, petID, itemID int) (bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	var fed bool
	err := s.repo.InTx(ctx, func(st Store) error {
		pet, err := st.GetPet(ctx, userID, petID)
		if err != nil {
			return err
		}
		if pet == nil {
			return ErrPetNotFound
		}
		entry, err := st.GetInventoryEntry(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if entry == nil || !entry.Item.IsFood {
			return nil
		}
		ok, err := removeUnits(ctx, st, entry, 1)
		if err != nil || !ok {
			return err
		}

		pet.Happiness += entry.Item.HappinessIncrease
		pet.Health += entry.Item.HealthIncrease
		pet.Energy += entry.Item.EnergyIncrease
		if err := savePet(ctx, st, pet); err != nil {
			return err
		}
		fed = true
		return nil
	})
	if err != nil {
		metrics.RecordFeed("error")
		return false, err
	}

	if !fed {
		metrics.RecordFeed("no_food")
		s.log.Debug().Int("user_id", userID).Int("pet_id", petID).Int("item_id", itemID).Msg("nothing to feed")
		return false, nil
	}
	metrics.RecordFeed("fed")
	s.log.Info().Int("user_id", userID).Int("pet_id", petID).Int("item_id", itemID).Msg("pet fed")
	return true, nil
}
