package domain

import "math"

// MaxCoins is the largest balance the coins column can hold.
const MaxCoins = math.MaxInt32

type User struct {
	ID           int    `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Coins        int    `db:"coins"`
}
