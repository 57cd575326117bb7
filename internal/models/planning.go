package models

import "time"

// Planning is one persisted daily room-assignment run.
type Planning struct {
	ID           string    `db:"id" json:"id"`
	Date         time.Time `db:"date" json:"date"`
	Outcome      string    `db:"outcome" json:"outcome"`
	SolverStatus string    `db:"solver_status" json:"solver_status"`
	GeneratedAt  time.Time `db:"generated_at" json:"generated_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PlanningEntry is one course placement inside a planning. Unassigned
// courses are persisted too, with an empty room name and Assigned false.
type PlanningEntry struct {
	ID              string    `db:"id" json:"id"`
	PlanningID      string    `db:"planning_id" json:"planning_id"`
	RequestID       string    `db:"request_id" json:"request_id"`
	TeacherName     string    `db:"teacher_name" json:"teacher_name"`
	Level           string    `db:"level" json:"level"`
	Title           string    `db:"title" json:"title"`
	Subject         string    `db:"subject" json:"subject"`
	RoomName        string    `db:"room_name" json:"room_name"`
	StartMinutes    int       `db:"start_minutes" json:"start_minutes"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Assigned        bool      `db:"assigned" json:"assigned"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
