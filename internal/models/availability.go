package models

import "time"

// RoomWindow is a recurring weekly slot during which a gated room may be
// booked. Minutes are counted from midnight.
type RoomWindow struct {
	ID           string    `db:"id" json:"id"`
	RoomName     string    `db:"room_name" json:"room_name"`
	Weekday      int       `db:"weekday" json:"weekday"`
	StartMinutes int       `db:"start_minutes" json:"start_minutes"`
	EndMinutes   int       `db:"end_minutes" json:"end_minutes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
