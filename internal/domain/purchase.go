package domain

import "time"

// Purchase records a completed buy. Rows are never updated.
type Purchase struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	ItemID    int       `db:"item_id" json:"itemId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Amount    int       `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
