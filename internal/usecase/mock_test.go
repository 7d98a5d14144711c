package usecase

import (
	"context"
	"errors"
	"sort"

	"petShop/internal/domain"
)

type mockRepo struct {
	users       map[int]*domain.User
	usersByName map[string]*domain.User
	items       map[int]*domain.Item
	pets        map[int]*domain.Pet
	inventory   []domain.InventoryEntry
	purchases   []domain.Purchase
	lastID      int

	failAddInventory error
	petSaves         int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:       make(map[int]*domain.User),
		usersByName: make(map[string]*domain.User),
		items:       make(map[int]*domain.Item),
		pets:        make(map[int]*domain.Pet),
		inventory:   []domain.InventoryEntry{},
		purchases:   []domain.Purchase{},
	}
}

func (m *mockRepo) nextID() int {
	m.lastID++
	return m.lastID
}

// InTx restores the previous state when fn fails.
func (m *mockRepo) InTx(ctx context.Context, fn func(Store) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type mockState struct {
	users     map[int]domain.User
	pets      map[int]domain.Pet
	inventory []domain.InventoryEntry
	purchases []domain.Purchase
}

func (m *mockRepo) snapshot() mockState {
	s := mockState{
		users:     make(map[int]domain.User, len(m.users)),
		pets:      make(map[int]domain.Pet, len(m.pets)),
		inventory: append([]domain.InventoryEntry(nil), m.inventory...),
		purchases: append([]domain.Purchase(nil), m.purchases...),
	}
	for id, u := range m.users {
		s.users[id] = *u
	}
	for id, p := range m.pets {
		s.pets[id] = *p
	}
	return s
}

func (m *mockRepo) restore(s mockState) {
	for id, u := range s.users {
		*m.users[id] = u
	}
	for id, p := range s.pets {
		*m.pets[id] = p
	}
	m.inventory = s.inventory
	m.purchases = s.purchases
}

func (m *mockRepo) CreateUser(ctx context.Context, username, passwordHash string, coins int) (int, error) {
	newUser := &domain.User{
		ID:           m.nextID(),
		Username:     username,
		PasswordHash: passwordHash,
		Coins:        coins,
	}
	m.users[newUser.ID] = newUser
	m.usersByName[newUser.Username] = newUser
	return newUser.ID, nil
}

func (m *mockRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if user, ok := m.usersByName[username]; ok {
		u := *user
		return &u, nil
	}
	return nil, nil
}

func (m *mockRepo) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, nil
}

func (m *mockRepo) DebitCoins(ctx context.Context, userID, amount int) (bool, error) {
	user, ok := m.users[userID]
	if !ok || user.Coins < amount {
		return false, nil
	}
	user.Coins -= amount
	return true, nil
}

func (m *mockRepo) CreditCoins(ctx context.Context, userID, amount int) error {
	user, ok := m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	user.Coins += amount
	return nil
}

func (m *mockRepo) CreateItem(ctx context.Context, item *domain.Item) (int, error) {
	it := *item
	it.ID = m.nextID()
	m.items[it.ID] = &it
	return it.ID, nil
}

func (m *mockRepo) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	if item, ok := m.items[id]; ok {
		it := *item
		return &it, nil
	}
	return nil, nil
}

func (m *mockRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	var res []domain.Item
	for _, it := range m.items {
		res = append(res, *it)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *mockRepo) CreatePet(ctx context.Context, pet *domain.Pet) (int, error) {
	p := *pet
	p.ID = m.nextID()
	m.pets[p.ID] = &p
	return p.ID, nil
}

func (m *mockRepo) GetPet(ctx context.Context, ownerID, petID int) (*domain.Pet, error) {
	if pet, ok := m.pets[petID]; ok && pet.OwnerID == ownerID {
		p := *pet
		return &p, nil
	}
	return nil, nil
}

func (m *mockRepo) ListPets(ctx context.Context, ownerID int) ([]domain.Pet, error) {
	var res []domain.Pet
	for _, p := range m.pets {
		if p.OwnerID == ownerID {
			res = append(res, *p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *mockRepo) UpdatePetStats(ctx context.Context, pet *domain.Pet) error {
	stored, ok := m.pets[pet.ID]
	if !ok {
		return errors.New("pet not found")
	}
	m.petSaves++
	stored.Health = pet.Health
	stored.Happiness = pet.Happiness
	stored.Energy = pet.Energy
	return nil
}

func (m *mockRepo) AddInventory(ctx context.Context, userID, itemID, qty int) error {
	if m.failAddInventory != nil {
		return m.failAddInventory
	}
	if qty <= 0 {
		return errors.New("quantity must be positive")
	}
	for i, inv := range m.inventory {
		if inv.UserID == userID && inv.ItemID == itemID {
			m.inventory[i].Quantity += qty
			return nil
		}
	}
	m.inventory = append(m.inventory, domain.InventoryEntry{
		ID:       m.nextID(),
		UserID:   userID,
		ItemID:   itemID,
		Quantity: qty,
	})
	return nil
}

func (m *mockRepo) withItem(e domain.InventoryEntry) *domain.InventoryEntry {
	if it, ok := m.items[e.ItemID]; ok {
		e.Item = *it
	}
	return &e
}

func (m *mockRepo) GetInventoryEntry(ctx context.Context, userID, itemID int) (*domain.InventoryEntry, error) {
	for _, inv := range m.inventory {
		if inv.UserID == userID && inv.ItemID == itemID {
			return m.withItem(inv), nil
		}
	}
	return nil, nil
}

func (m *mockRepo) GetInventoryEntryByID(ctx context.Context, userID, entryID int) (*domain.InventoryEntry, error) {
	for _, inv := range m.inventory {
		if inv.ID == entryID && inv.UserID == userID {
			return m.withItem(inv), nil
		}
	}
	return nil, nil
}

func (m *mockRepo) DecrementInventory(ctx context.Context, entryID, amount int) (bool, error) {
	for i, inv := range m.inventory {
		if inv.ID != entryID {
			continue
		}
		switch {
		case inv.Quantity > amount:
			m.inventory[i].Quantity -= amount
			return true, nil
		case inv.Quantity == amount:
			m.inventory = append(m.inventory[:i:i], m.inventory[i+1:]...)
			return true, nil
		}
		return false, nil
	}
	return false, nil
}

func (m *mockRepo) ListUserInventory(ctx context.Context, userID int) ([]domain.InventoryEntry, error) {
	var result []domain.InventoryEntry
	for _, inv := range m.inventory {
		if inv.UserID == userID {
			result = append(result, *m.withItem(inv))
		}
	}
	return result, nil
}

func (m *mockRepo) CreatePurchase(ctx context.Context, p *domain.Purchase) (int, error) {
	rec := *p
	rec.ID = m.nextID()
	m.purchases = append(m.purchases, rec)
	return rec.ID, nil
}

func (m *mockRepo) ListPurchases(ctx context.Context, userID, limit int) ([]domain.Purchase, error) {
	var result []domain.Purchase
	for i := len(m.purchases) - 1; i >= 0 && len(result) < limit; i-- {
		if m.purchases[i].UserID == userID {
			result = append(result, m.purchases[i])
		}
	}
	return result, nil
}

// entry returns the stored ledger row for (userID, itemID), if any.
func (m *mockRepo) entry(userID, itemID int) (domain.InventoryEntry, bool) {
	for _, inv := range m.inventory {
		if inv.UserID == userID && inv.ItemID == itemID {
			return inv, true
		}
	}
	return domain.InventoryEntry{}, false
}
