package domain

import (
	"math"
	"time"
)

// MaxQuantity is the largest number of units one inventory entry can hold.
const MaxQuantity = math.MaxInt32

// InventoryEntry is the ledger row for one (user, item) pair. Item is loaded
// together with the entry.
type InventoryEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ItemID    int       `json:"itemId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	Item      Item      `json:"item"`
}

type InventoryFilter string

const (
	FilterAll       InventoryFilter = ""
	FilterFood      InventoryFilter = "food"
	FilterToy       InventoryFilter = "toy"
	FilterHealth    InventoryFilter = "health"
	FilterHappiness InventoryFilter = "happiness"
	FilterEnergy    InventoryFilter = "energy"
)

func ParseInventoryFilter(s string) (InventoryFilter, error) {
	switch f := InventoryFilter(s); f {
	case FilterAll, FilterFood, FilterToy, FilterHealth, FilterHappiness, FilterEnergy:
		return f, nil
	}
	return FilterAll, ErrUnknownFilter
}

func (f InventoryFilter) Matches(item Item) bool {
	switch f {
	case FilterFood:
		return item.IsFood
	case FilterToy:
		return item.IsToy
	case FilterHealth:
		return item.HealthIncrease > 0
	case FilterHappiness:
		return item.HappinessIncrease > 0
	case FilterEnergy:
		return item.EnergyIncrease > 0
	}
	return true
}

// CanHold reports whether held units can grow by add without passing
// MaxQuantity.
func CanHold(held, add int) bool {
	return add >= 0 && held >= 0 && add <= MaxQuantity-held
}
