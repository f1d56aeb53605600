package model

import "time"

// ReservationLock is the per-facility guard document. Every transaction that checks and then
// writes reservations of a facility bumps Version first, so two such transactions on the same
// facility cannot both commit.
type ReservationLock struct {
	ID         string    `bson:"_id" json:"id"`
	Version    int64     `bson:"version" json:"version"`
	LastHolder string    `bson:"last_holder" json:"last_holder"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
