package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	StatFloor   = 0
	StatCeiling = 100
	DefaultMax  = 100

	maxPetName    = 25
	maxPetSpecies = 50
)

type Pet struct {
	ID           int       `db:"id" json:"id"`
	OwnerID      int       `db:"owner_id" json:"ownerId"`
	Name         string    `db:"name" json:"name"`
	Species      string    `db:"species" json:"species"`
	Age          int       `db:"age" json:"age"`
	Health       int       `db:"health" json:"health"`
	MaxHealth    int       `db:"max_health" json:"maxHealth"`
	Happiness    int       `db:"happiness" json:"happiness"`
	MaxHappiness int       `db:"max_happiness" json:"maxHappiness"`
	Energy       int       `db:"energy" json:"energy"`
	MaxEnergy    int       `db:"max_energy" json:"maxEnergy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewPet returns a pet with every stat full.
func NewPet(ownerID int, name, species string) *Pet {
	return &Pet{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(name),
		Species:      strings.TrimSpace(species),
		Health:       DefaultMax,
		MaxHealth:    DefaultMax,
		Happiness:    DefaultMax,
		MaxHappiness: DefaultMax,
		Energy:       DefaultMax,
		MaxEnergy:    DefaultMax,
	}
}

func (p *Pet) Validate() error {
	if n := utf8.RuneCountInString(p.Name); n == 0 || n > maxPetName {
		return ErrPetName
	}
	if utf8.RuneCountInString(p.Species) > maxPetSpecies {
		return ErrPetSpecies
	}
	return nil
}

// ClampStats pins health and happiness to [StatFloor, StatCeiling] whatever the
// per-pet maximums say, and keeps energy within [StatFloor, MaxEnergy].
// Every path that persists a pet must call it.
func ClampStats(p *Pet) {
	p.Health = clamp(p.Health, StatFloor, StatCeiling)
	p.Happiness = clamp(p.Happiness, StatFloor, StatCeiling)
	p.Energy = clamp(p.Energy, StatFloor, p.MaxEnergy)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
