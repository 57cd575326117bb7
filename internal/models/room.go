package models

import "time"

// Room represents a physical room and its fixed equipment inventory.
type Room struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Type               string    `db:"type" json:"type"`
	Capacity           int       `db:"capacity" json:"capacity"`
	Computers          int       `db:"computers" json:"computers"`
	Sinks              int       `db:"sinks" json:"sinks"`
	FumeHoods          int       `db:"fume_hoods" json:"fume_hoods"`
	OpticalBenches     int       `db:"optical_benches" json:"optical_benches"`
	Oscilloscopes      int       `db:"oscilloscopes" json:"oscilloscopes"`
	ElectricBurners    int       `db:"electric_burners" json:"electric_burners"`
	FiltrationSupports int       `db:"filtration_supports" json:"filtration_supports"`
	Printers           int       `db:"printers" json:"printers"`
	ExamCapable        bool      `db:"exam_capable" json:"exam_capable"`
	Active             bool      `db:"active" json:"active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Search    string
	Type      string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
