package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"petShop/internal/domain"
)

// store runs queries on either the pool or an open transaction. Queries are
// written with ? placeholders and rebound for the driver.
type store struct {
	q sqlx.ExtContext
}

const petColumns = `id, owner_id, name, species, age, health, max_health, happiness,
	max_happiness, energy, max_energy, created_at`

const itemColumns = `id, name, description, price, is_food, is_toy,
	health_increase, happiness_increase, energy_increase`

const entryQuery = `SELECT ui.id, ui.user_id, ui.item_id, ui.quantity, ui.created_at,
	i.id, i.name, i.description, i.price, i.is_food, i.is_toy,
	i.health_increase, i.happiness_increase, i.energy_increase
	FROM user_inventory ui
	JOIN items i ON i.id = ui.item_id`

func (s *store) rebind(query string) string {
	return s.q.Rebind(query)
}

func (s *store) CreateUser(ctx context.Context, username, passwordHash string, coins int) (int, error) {
	query := s.rebind(`INSERT INTO users (username, password_hash, coins) VALUES (?, ?, ?) RETURNING id;`)
	var newID int
	if err := sqlx.GetContext(ctx, s.q, &newID, query, username, passwordHash, coins); err != nil {
		return 0, errors.Wrap(err, "repo: CreateUser")
	}
	return newID, nil
}

func (s *store) getUser(ctx context.Context, op, where string, arg interface{}) (*domain.User, error) {
	query := s.rebind(`SELECT id, username, password_hash, coins FROM users WHERE ` + where + ` = ?;`)
	u := &domain.User{}
	if err := sqlx.GetContext(ctx, s.q, u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: "+op)
	}
	return u, nil
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, "GetUserByUsername", "username", username)
}

func (s *store) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	return s.getUser(ctx, "GetUserByID", "id", id)
}

func (s *store) DebitCoins(ctx context.Context, userID, amount int) (bool, error) {
	query := s.rebind(`UPDATE users SET coins = coins - ? WHERE id = ? AND coins >= ?;`)
	res, err := s.q.ExecContext(ctx, query, amount, userID, amount)
	if err != nil {
		return false, errors.Wrap(err, "repo: DebitCoins")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "repo: DebitCoins")
	}
	return rows == 1, nil
}

func (s *store) CreditCoins(ctx context.Context, userID, amount int) error {
	query := s.rebind(`UPDATE users SET coins = coins + ? WHERE id = ?;`)
	res, err := s.q.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return errors.Wrap(err, "repo: CreditCoins")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("no user updated, user_id=%d not found", userID)
	}
	return nil
}

func (s *store) CreateItem(ctx context.Context, item *domain.Item) (int, error) {
	query := s.rebind(`INSERT INTO items (name, description, price, is_food, is_toy,
		health_increase, happiness_increase, energy_increase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id;`)
	var id int
	err := sqlx.GetContext(ctx, s.q, &id, query, item.Name, item.Description, item.Price,
		item.IsFood, item.IsToy, item.HealthIncrease, item.HappinessIncrease, item.EnergyIncrease)
	if err != nil {
		return 0, errors.Wrap(err, "repo: CreateItem")
	}
	return id, nil
}

func (s *store) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	query := s.rebind(`SELECT ` + itemColumns + ` FROM items WHERE id = ?;`)
	item := &domain.Item{}
	if err := sqlx.GetContext(ctx, s.q, item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: GetItem")
	}
	return item, nil
}

func (s *store) ListItems(ctx context.Context) ([]domain.Item, error) {
	var res []domain.Item
	if err := sqlx.SelectContext(ctx, s.q, &res, `SELECT `+itemColumns+` FROM items ORDER BY id;`); err != nil {
		return nil, errors.Wrap(err, "repo: ListItems")
	}
	return res, nil
}

func (s *store) CreatePet(ctx context.Context, pet *domain.Pet) (int, error) {
	query := s.rebind(`INSERT INTO pets (owner_id, name, species, age, health, max_health,
		happiness, max_happiness, energy, max_energy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id;`)
	var id int
	err := sqlx.GetContext(ctx, s.q, &id, query, pet.OwnerID, pet.Name, pet.Species, pet.Age,
		pet.Health, pet.MaxHealth, pet.Happiness, pet.MaxHappiness, pet.Energy, pet.MaxEnergy,
		pet.CreatedAt)
	if err != nil {
		return 0, errors.Wrap(err, "repo: CreatePet")
	}
	return id, nil
}

func (s *store) GetPet(ctx context.Context, ownerID, petID int) (*domain.Pet, error) {
	query := s.rebind(`SELECT ` + petColumns + ` FROM pets WHERE id = ? AND owner_id = ?;`)
	pet := &domain.Pet{}
	if err := sqlx.GetContext(ctx, s.q, pet, query, petID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: GetPet")
	}
	return pet, nil
}

func (s *store) ListPets(ctx context.Context, ownerID int) ([]domain.Pet, error) {
	query := s.rebind(`SELECT ` + petColumns + ` FROM pets WHERE owner_id = ? ORDER BY id;`)
	var res []domain.Pet
	if err := sqlx.SelectContext(ctx, s.q, &res, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "repo: ListPets")
	}
	return res, nil
}

func (s *store) UpdatePetStats(ctx context.Context, pet *domain.Pet) error {
	query := s.rebind(`UPDATE pets SET health = ?, happiness = ?, energy = ? WHERE id = ? AND owner_id = ?;`)
	res, err := s.q.ExecContext(ctx, query, pet.Health, pet.Happiness, pet.Energy, pet.ID, pet.OwnerID)
	if err != nil {
		return errors.Wrap(err, "repo: UpdatePetStats")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("no pet updated, pet_id=%d not found", pet.ID)
	}
	return nil
}

func (s *store) AddInventory(ctx context.Context, userID, itemID, qty int) error {
	query := s.rebind(`
        INSERT INTO user_inventory (user_id, item_id, quantity, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id, item_id) DO UPDATE
        SET quantity = user_inventory.quantity + excluded.quantity;
    `)
	_, err := s.q.ExecContext(ctx, query, userID, itemID, qty, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "repo: AddInventory")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.InventoryEntry, error) {
	e := &domain.InventoryEntry{}
	err := row.Scan(&e.ID, &e.UserID, &e.ItemID, &e.Quantity, &e.CreatedAt,
		&e.Item.ID, &e.Item.Name, &e.Item.Description, &e.Item.Price, &e.Item.IsFood, &e.Item.IsToy,
		&e.Item.HealthIncrease, &e.Item.HappinessIncrease, &e.Item.EnergyIncrease)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *store) getEntry(ctx context.Context, op, where string, args ...interface{}) (*domain.InventoryEntry, error) {
	row := s.q.QueryRowxContext(ctx, s.rebind(entryQuery+` WHERE `+where+`;`), args...)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: "+op)
	}
	return e, nil
}

func (s *store) GetInventoryEntry(ctx context.Context, userID, itemID int) (*domain.InventoryEntry, error) {
	return s.getEntry(ctx, "GetInventoryEntry", "ui.user_id = ? AND ui.item_id = ?", userID, itemID)
}

func (s *store) GetInventoryEntryByID(ctx context.Context, userID, entryID int) (*domain.InventoryEntry, error) {
	return s.getEntry(ctx, "GetInventoryEntryByID", "ui.id = ? AND ui.user_id = ?", entryID, userID)
}

func (s *store) DecrementInventory(ctx context.Context, entryID, amount int) (bool, error) {
	query := s.rebind(`UPDATE user_inventory SET quantity = quantity - ? WHERE id = ? AND quantity > ?;`)
	res, err := s.q.ExecContext(ctx, query, amount, entryID, amount)
	if err != nil {
		return false, errors.Wrap(err, "repo: DecrementInventory")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "repo: DecrementInventory")
	}
	if rows == 1 {
		return true, nil
	}

	// Taking the last units removes the row; quantity is never stored as zero.
	res, err = s.q.ExecContext(ctx, s.rebind(`DELETE FROM user_inventory WHERE id = ? AND quantity = ?;`), entryID, amount)
	if err != nil {
		return false, errors.Wrap(err, "repo: DecrementInventory")
	}
	if rows, err = res.RowsAffected(); err != nil {
		return false, errors.Wrap(err, "repo: DecrementInventory")
	}
	return rows == 1, nil
}

func (s *store) ListUserInventory(ctx context.Context, userID int) ([]domain.InventoryEntry, error) {
	rows, err := s.q.QueryxContext(ctx, s.rebind(entryQuery+` WHERE ui.user_id = ? ORDER BY i.name, ui.id;`), userID)
	if err != nil {
		return nil, errors.Wrap(err, "repo: ListUserInventory")
	}
	defer rows.Close()

	var res []domain.InventoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "repo: ListUserInventory")
		}
		res = append(res, *e)
	}
	return res, errors.Wrap(rows.Err(), "repo: ListUserInventory")
}

func (s *store) CreatePurchase(ctx context.Context, p *domain.Purchase) (int, error) {
	query := s.rebind(`INSERT INTO purchases (user_id, item_id, quantity, amount, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id;`)
	var id int
	if err := sqlx.GetContext(ctx, s.q, &id, query, p.UserID, p.ItemID, p.Quantity, p.Amount, p.CreatedAt); err != nil {
		return 0, errors.Wrap(err, "repo: CreatePurchase")
	}
	return id, nil
}

func (s *store) ListPurchases(ctx context.Context, userID, limit int) ([]domain.Purchase, error) {
	query := s.rebind(`SELECT id, user_id, item_id, quantity, amount, created_at
	          FROM purchases
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC LIMIT ?;`)
	var res []domain.Purchase
	if err := sqlx.SelectContext(ctx, s.q, &res, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "repo: ListPurchases")
	}
	return res, nil
}
