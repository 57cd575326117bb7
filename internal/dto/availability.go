package dto

// CreateRoomWindowRequest adds a weekly availability window for the gated
// room. Times use the same "9h30" tokens as course starts.
type CreateRoomWindowRequest struct {
	RoomName string `json:"roomName" validate:"required"`
	Weekday  int    `json:"weekday" validate:"min=0,max=6"`
	Start    string `json:"start" validate:"required"`
	End      string `json:"end" validate:"required"`
}

// RoomWindowResponse is one availability window as returned by the API.
type RoomWindowResponse struct {
	ID       string `json:"id"`
	RoomName string `json:"roomName"`
	Weekday  int    `json:"weekday"`
	Start    string `json:"start"`
	End      string `json:"end"`
}
