package domain

import "errors"

var (
	ErrItemName      = errors.New("item name is required")
	ErrItemNegative  = errors.New("item price and increases must be non-negative")
	ErrPetName       = errors.New("pet name must be 1 to 25 characters")
	ErrPetSpecies    = errors.New("pet species must be at most 50 characters")
	ErrUnknownFilter = errors.New("unknown inventory filter")
)
