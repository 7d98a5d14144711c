package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampStats(t *testing.T) {
	tests := []struct {
		name      string
		pet       Pet
		health    int
		happiness int
		energy    int
	}{
		{"within range", Pet{Health: 80, Happiness: 90, Energy: 50, MaxEnergy: 100}, 80, 90, 50},
		{"happiness above ceiling", Pet{Health: 80, Happiness: 110, Energy: 50, MaxEnergy: 100}, 80, 100, 50},
		{"happiness below floor", Pet{Health: 80, Happiness: -60, Energy: 50, MaxEnergy: 100}, 80, 0, 50},
		{"health above ceiling", Pet{Health: 105, Happiness: 90, Energy: 50, MaxEnergy: 100}, 100, 90, 50},
		{"health below floor", Pet{Health: -10, Happiness: 90, Energy: 50, MaxEnergy: 100}, 0, 90, 50},
		{"ceiling ignores larger max", Pet{Health: 140, MaxHealth: 150, Happiness: 140, MaxHappiness: 150, Energy: 10, MaxEnergy: 100}, 100, 100, 10},
		{"energy capped at its max", Pet{Health: 1, Happiness: 1, Energy: 130, MaxEnergy: 120}, 1, 1, 120},
		{"energy floored", Pet{Health: 1, Happiness: 1, Energy: -5, MaxEnergy: 100}, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pet
			ClampStats(&p)
			assert.Equal(t, tt.health, p.Health)
			assert.Equal(t, tt.happiness, p.Happiness)
			assert.Equal(t, tt.energy, p.Energy)
		})
	}
}

func TestNewPet(t *testing.T) {
	p := NewPet(7, "  Fluffy ", "Dog")
	assert.Equal(t, 7, p.OwnerID)
	assert.Equal(t, "Fluffy", p.Name)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 100, p.MaxHappiness)
	assert.Equal(t, 100, p.Energy)
	assert.NoError(t, p.Validate())
}

func TestPetValidate(t *testing.T) {
	assert.ErrorIs(t, NewPet(1, "", "Dog").Validate(), ErrPetName)
	assert.ErrorIs(t, NewPet(1, strings.Repeat("a", 26), "Dog").Validate(), ErrPetName)
	assert.NoError(t, NewPet(1, strings.Repeat("ü", 25), "Dog").Validate())
	assert.ErrorIs(t, NewPet(1, "Rex", strings.Repeat("s", 51)).Validate(), ErrPetSpecies)
}
