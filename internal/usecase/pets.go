package usecase

import (
	"context"
	"fmt"
	"time"

	"petShop/internal/domain"
)

func (s *Service) CreatePet(ctx context.Context, ownerID int, name, species string) (*domain.Pet, error) {
	pet := domain.NewPet(ownerID, name, species)
	if err := pet.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPet, err)
	}
	user, err := s.repo.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pet.CreatedAt = time.Now().UTC()
	domain.ClampStats(pet)
	id, err := s.repo.CreatePet(ctx, pet)
	if err != nil {
		return nil, err
	}
	pet.ID = id
	s.log.Info().Int("user_id", ownerID).Int("pet_id", id).Str("species", pet.Species).Msg("pet adopted")
	return pet, nil
}

func (s *Service) ListPets(ctx context.Context, ownerID int) ([]domain.Pet, error) {
	return s.repo.ListPets(ctx, ownerID)
}

// GetPet returns the pet only if ownerID owns it.
func (s *Service) GetPet(ctx context.Context, ownerID, petID int) (*domain.Pet, error) {
	pet, err := s.repo.GetPet(ctx, ownerID, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	return pet, nil
}

// savePet is the only path that writes pet stats back.
func savePet(ctx context.Context, st Store, pet *domain.Pet) error {
	domain.ClampStats(pet)
	return st.UpdatePetStats(ctx, pet)
}
