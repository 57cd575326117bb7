package dto

// CreateRoomRequest registers a room and its equipment inventory.
type CreateRoomRequest struct {
	Name               string `json:"name" validate:"required"`
	Type               string `json:"type" validate:"omitempty,oneof=Physique Chimie"`
	Capacity           int    `json:"capacity" validate:"required,min=1,max=100"`
	Computers          int    `json:"computers" validate:"omitempty,min=0"`
	Sinks              int    `json:"sinks" validate:"omitempty,min=0"`
	FumeHoods          int    `json:"fumeHoods" validate:"omitempty,min=0"`
	OpticalBenches     int    `json:"opticalBenches" validate:"omitempty,min=0"`
	Oscilloscopes      int    `json:"oscilloscopes" validate:"omitempty,min=0"`
	ElectricBurners    int    `json:"electricBurners" validate:"omitempty,min=0"`
	FiltrationSupports int    `json:"filtrationSupports" validate:"omitempty,min=0"`
	Printers           int    `json:"printers" validate:"omitempty,min=0"`
	ExamCapable        bool   `json:"examCapable"`
}

// UpdateRoomRequest modifies a room. Nil fields are left untouched.
type UpdateRoomRequest struct {
	Type               *string `json:"type" validate:"omitempty,oneof=Physique Chimie"`
	Capacity           *int    `json:"capacity" validate:"omitempty,min=1,max=100"`
	Computers          *int    `json:"computers" validate:"omitempty,min=0"`
	Sinks              *int    `json:"sinks" validate:"omitempty,min=0"`
	FumeHoods          *int    `json:"fumeHoods" validate:"omitempty,min=0"`
	OpticalBenches     *int    `json:"opticalBenches" validate:"omitempty,min=0"`
	Oscilloscopes      *int    `json:"oscilloscopes" validate:"omitempty,min=0"`
	ElectricBurners    *int    `json:"electricBurners" validate:"omitempty,min=0"`
	FiltrationSupports *int    `json:"filtrationSupports" validate:"omitempty,min=0"`
	Printers           *int    `json:"printers" validate:"omitempty,min=0"`
	ExamCapable        *bool   `json:"examCapable"`
	Active             *bool   `json:"active"`
}

// ImportRoomsResult summarises a CSV catalog import.
type ImportRoomsResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}
