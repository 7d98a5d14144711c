package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"petShop/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotEnoughCoins     = errors.New("not enough coins")
	ErrWeakPassword       = errors.New("password does not meet security " +
		"requirements: minimum 8 characters, at least one uppercase letter, one " +
		"lowercase letter, one digit, and one special character")

	ErrInsufficientQuantity = errors.New("you don't have enough of this item")
	ErrEntryNotFound        = errors.New("inventory entry not found")
	ErrPetNotFound          = errors.New("pet not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero and within limits")
	ErrInvalidPet           = errors.New("invalid pet")
	ErrInvalidItem          = errors.New("invalid item")
)

const (
	defaultStartingCoins = 1000
	recentPurchases      = 100
)

// Store is the set of persistence operations the flows need. Lookups return
// (nil, nil) when the row does not exist.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string, coins int) (int, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	// DebitCoins subtracts amount only when the balance covers it and reports
	// whether it did.
	DebitCoins(ctx context.Context, userID, amount int) (bool, error)
	CreditCoins(ctx context.Context, userID, amount int) error

	CreateItem(ctx context.Context, item *domain.Item) (int, error)
	GetItem(ctx context.Context, id int) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)

	CreatePet(ctx context.Context, pet *domain.Pet) (int, error)
	GetPet(ctx context.Context, ownerID, petID int) (*domain.Pet, error)
	ListPets(ctx context.Context, ownerID int) ([]domain.Pet, error)
	UpdatePetStats(ctx context.Context, pet *domain.Pet) error

	// AddInventory creates the (user, item) entry on first use and adds qty to it.
	AddInventory(ctx context.Context, userID, itemID, qty int) error
	GetInventoryEntry(ctx context.Context, userID, itemID int) (*domain.InventoryEntry, error)
	GetInventoryEntryByID(ctx context.Context, userID, entryID int) (*domain.InventoryEntry, error)
	// DecrementInventory removes amount units only when the entry still holds
	// them, deleting the entry when none are left, and reports whether it did.
	DecrementInventory(ctx context.Context, entryID, amount int) (bool, error)
	ListUserInventory(ctx context.Context, userID int) ([]domain.InventoryEntry, error)

	CreatePurchase(ctx context.Context, p *domain.Purchase) (int, error)
	ListPurchases(ctx context.Context, userID, limit int) ([]domain.Purchase, error)
}

// Repository is a Store that can run a group of calls atomically. The Store
// handed to fn must be used for every call inside the group.
type Repository interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}

type Service struct {
	repo          Repository
	log           zerolog.Logger
	startingCoins int
	chargePerUnit bool
	locks         *userLocks
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithStartingCoins sets the balance given to newly registered users.
func WithStartingCoins(coins int) Option {
	return func(s *Service) {
		s.startingCoins = coins
	}
}

// WithChargePerUnit makes purchases cost price*quantity instead of a single
// unit price.
func WithChargePerUnit(enabled bool) Option {
	return func(s *Service) {
		s.chargePerUnit = enabled
	}
}

func NewService(r Repository, opts ...Option) *Service {
	s := &Service{
		repo:          r,
		log:           zerolog.Nop(),
		startingCoins: defaultStartingCoins,
		locks:         newUserLocks(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString("[a-z]", password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString("[A-Z]", password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString("\\d", password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString(`[@$!%*?&]`, password); !ok {
		return ErrWeakPassword
	}

	return nil
}

func (s *Service) RegisterOrLogin(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if err := validatePassword(password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		newID, err := s.repo.CreateUser(ctx, username, string(hashed), s.startingCoins)
		if err != nil {
			return nil, err
		}
		s.log.Info().Int("user_id", newID).Str("username", username).Msg("user registered")
		return s.repo.GetUserByID(ctx, newID)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

type InventoryView struct {
	ID       int    `json:"id"`
	ItemID   int    `json:"itemId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity"`
}

type PurchaseView struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Amount   int    `json:"amount"`
}

type InfoResponse struct {
	Coins     int             `json:"coins"`
	Inventory []InventoryView `json:"inventory"`
	Pets      []domain.Pet    `json:"pets"`
	Purchases []PurchaseView  `json:"purchases"`
}

func (s *Service) GetInfo(ctx context.Context, userID int) (*InfoResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	inv, err := s.repo.ListUserInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	pets, err := s.repo.ListPets(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListPurchases(ctx, userID, recentPurchases)
	if err != nil {
		return nil, err
	}

	resp := &InfoResponse{
		Coins:     user.Coins,
		Inventory: toInventoryViews(inv),
		Pets:      pets,
		Purchases: make([]PurchaseView, 0, len(history)),
	}
	if resp.Pets == nil {
		resp.Pets = []domain.Pet{}
	}

	names := make(map[int]string)
	for _, p := range history {
		name, ok := names[p.ItemID]
		if !ok {
			item, err := s.repo.GetItem(ctx, p.ItemID)
			if err != nil || item == nil {
				continue
			}
			name = item.Name
			names[p.ItemID] = name
		}
		resp.Purchases = append(resp.Purchases, PurchaseView{
			Item:     name,
			Quantity: p.Quantity,
			Amount:   p.Amount,
		})
	}
	return resp, nil
}

func toInventoryViews(entries []domain.InventoryEntry) []InventoryView {
	views := make([]InventoryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, InventoryView{
			ID:       e.ID,
			ItemID:   e.ItemID,
			Name:     e.Item.Name,
			Kind:     e.Item.Kind(),
			Quantity: e.Quantity,
		})
	}
	return views
}
