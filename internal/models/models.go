package models

import (
	"encoding/json"
	"time"
)

// Profile is a named owner of saved layouts
type Profile struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PINHash   string    `db:"pin_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Layout is a saved overlay snapshot belonging to a profile
type Layout struct {
	ID        int             `db:"id" json:"id"`
	ProfileID int             `db:"profile_id" json:"profile_id"`
	Name      string          `db:"name" json:"name"`
	Snapshot  json.RawMessage `db:"snapshot" json:"snapshot"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
