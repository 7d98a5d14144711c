package usecase

import (
	"context"
	"fmt"

	"petShop/internal/domain"
)

func (s *Service) CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	id, err := s.repo.CreateItem(ctx, &item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	s.log.Info().Int("item_id", id).Str("name", item.Name).Int("price", item.Price).Msg("item created")
	return &item, nil
}

func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetItem(ctx context.Context, itemID int) (*domain.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}
