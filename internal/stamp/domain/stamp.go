package domain

import "time"

// Stamp is a postage reward owned by an account. Starter stamps are granted
// in a fixed batch when the account is created.
type Stamp struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}
