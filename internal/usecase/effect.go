package usecase

import (
	"context"

	"petShop/internal/domain"
	"petShop/internal/metrics"
)

// UseItem applies one unit of an inventory entry to a pet and consumes it.
// Food restores health and energy up to the pet's maximums, a toy raises
// happiness up to StatCeiling. Any other item is consumed without effect.
func (s *Service) UseItem(ctx context.Context, userID, entryID, petID int) (*domain.Pet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	var (
		pet  *domain.Pet
		kind string
	)
	err := s.repo.InTx(ctx, func(st Store) error {
		entry, err := st.GetInventoryEntryByID(ctx, userID, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return ErrEntryNotFound
		}
		p, err := st.GetPet(ctx, userID, petID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPetNotFound
		}

		if err := applyItem(entry, p); err != nil {
			return err
		}
		if err := savePet(ctx, st, p); err != nil {
			return err
		}
		if _, err := removeUnits(ctx, st, entry, 1); err != nil {
			return err
		}
		pet, kind = p, entry.Item.Kind()
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).Int("user_id", userID).Int("entry_id", entryID).Int("pet_id", petID).Msg("item use rejected")
		return nil, err
	}

	metrics.RecordItemUse(kind)
	s.log.Info().
		Int("user_id", userID).
		Int("pet_id", pet.ID).
		Int("entry_id", entryID).
		Str("kind", kind).
		Msg("item used")
	return pet, nil
}

func applyItem(entry *domain.InventoryEntry, pet *domain.Pet) error {
	if entry.Quantity <= 0 {
		return ErrInsufficientQuantity
	}

	item := entry.Item
	switch {
	case item.IsFood:
		pet.Health = min(pet.Health+item.HealthIncrease, pet.MaxHealth)
		pet.Energy = min(pet.Energy+item.EnergyIncrease, pet.MaxEnergy)
	case item.IsToy:
		pet.Happiness = min(pet.Happiness+item.HappinessIncrease, domain.StatCeiling)
	}
	return nil
}
