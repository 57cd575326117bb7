package dto

// GeneratePlanningRequest triggers a room-assignment run for one day.
type GeneratePlanningRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// PlanningEntryResponse is one placed or unplaced course in a planning.
type PlanningEntryResponse struct {
	RequestID       string `json:"requestId"`
	Teacher         string `json:"teacher"`
	Level           string `json:"level"`
	Title           string `json:"title,omitempty"`
	Subject         string `json:"subject"`
	Room            string `json:"room,omitempty"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"durationMinutes"`
	Assigned        bool   `json:"assigned"`
}

// PlanningResponse is a full daily planning as returned by the API.
type PlanningResponse struct {
	ID           string                  `json:"id"`
	Date         string                  `json:"date"`
	Outcome      string                  `json:"outcome"`
	SolverStatus string                  `json:"solverStatus"`
	GeneratedAt  string                  `json:"generatedAt"`
	Entries      []PlanningEntryResponse `json:"entries"`
	Unassigned   []string                `json:"unassigned,omitempty"`
}
