package domain

type Item struct {
	ID                int    `db:"id" json:"id"`
	Name              string `db:"name" json:"name"`
	Description       string `db:"description" json:"description"`
	Price             int    `db:"price" json:"price"`
	IsFood            bool   `db:"is_food" json:"isFood"`
	IsToy             bool   `db:"is_toy" json:"isToy"`
	HealthIncrease    int    `db:"health_increase" json:"healthIncrease"`
	HappinessIncrease int    `db:"happiness_increase" json:"happinessIncrease"`
	EnergyIncrease    int    `db:"energy_increase" json:"energyIncrease"`
}

// Kind names the effect class of an item as used in logs and metrics.
func (i Item) Kind() string {
	switch {
	case i.IsFood:
		return "food"
	case i.IsToy:
		return "toy"
	default:
		return "other"
	}
}

// Validate reports whether the catalog entry can be stored.
func (i Item) Validate() error {
	if i.Name == "" {
		return ErrItemName
	}
	if i.Price < 0 || i.HealthIncrease < 0 || i.HappinessIncrease < 0 || i.EnergyIncrease < 0 {
		return ErrItemNegative
	}
	return nil
}
