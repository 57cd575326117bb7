package models

import "time"

// Request statuses.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusPlanned  = "PLANNED"
	RequestStatusRejected = "REJECTED"
)

// MaterialRequest represents one classroom-resource request for a given
// teaching day.
type MaterialRequest struct {
	ID                string    `db:"id" json:"id"`
	TeacherID         string    `db:"teacher_id" json:"teacher_id"`
	TeacherName       string    `db:"teacher_name" json:"teacher_name"`
	Level             string    `db:"level" json:"level"`
	Title             string    `db:"title" json:"title"`
	Date              time.Time `db:"date" json:"date"`
	StartToken        string    `db:"start_token" json:"start_token"`
	SelectedMaterials string    `db:"selected_materials" json:"selected_materials"`
	Description       string    `db:"description" json:"description"`
	ComputersNeeded   int       `db:"computers_needed" json:"computers_needed"`
	RoomTypeHint      string    `db:"room_type_hint" json:"room_type_hint"`
	Exam              bool      `db:"exam" json:"exam"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// MaterialRequestFilter captures filtering options for listing requests.
type MaterialRequestFilter struct {
	TeacherID string
	Date      *time.Time
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
