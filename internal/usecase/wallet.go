package usecase

import (
	"context"

	"petShop/internal/domain"
)

// Debit spends amount from the user's balance. It reports false, leaving the
// balance untouched, when the balance does not cover amount.
func (s *Service) Debit(ctx context.Context, userID, amount int) (bool, error) {
	if amount < 0 {
		return false, ErrInvalidAmount
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	var ok bool
	err := s.repo.InTx(ctx, func(st Store) error {
		var err error
		ok, err = debit(ctx, st, userID, amount)
		return err
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Credit adds amount to the user's balance. A balance above domain.MaxCoins
// is rejected with ErrInvalidAmount.
func (s *Service) Credit(ctx context.Context, userID, amount int) error {
	if amount < 0 {
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
		if amount == 0 {
			return nil
		}
		if amount > domain.MaxCoins-user.Coins {
			return ErrInvalidAmount
		}
		if err := st.CreditCoins(ctx, userID, amount); err != nil {
			return err
		}
		s.log.Info().Int("user_id", userID).Int("amount", amount).Msg("coins credited")
		return nil
	})
}

func debit(ctx context.Context, st Store, userID, amount int) (bool, error) {
	user, err := st.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if user.Coins < amount {
		return false, nil
	}
	if amount == 0 {
		return true, nil
	}
	return st.DebitCoins(ctx, userID, amount)
}
