package dto

// CreateMaterialRequest submits a classroom-resource request for a
// teaching day.
type CreateMaterialRequest struct {
	TeacherID         string `json:"teacherId" validate:"required,uuid"`
	Level             string `json:"level" validate:"required"`
	Title             string `json:"title"`
	Date              string `json:"date" validate:"required,datetime=2006-01-02"`
	StartToken        string `json:"startToken" validate:"required"`
	SelectedMaterials string `json:"selectedMaterials"`
	Description       string `json:"description"`
	ComputersNeeded   int    `json:"computersNeeded" validate:"omitempty,min=0,max=40"`
	RoomTypeHint      string `json:"roomTypeHint" validate:"omitempty,oneof=Physique Chimie"`
	Exam              bool   `json:"exam"`
}

// UpdateMaterialRequest modifies a pending request. Nil fields are left
// untouched.
type UpdateMaterialRequest struct {
	Level             *string `json:"level"`
	Title             *string `json:"title"`
	StartToken        *string `json:"startToken"`
	SelectedMaterials *string `json:"selectedMaterials"`
	Description       *string `json:"description"`
	ComputersNeeded   *int    `json:"computersNeeded" validate:"omitempty,min=0,max=40"`
	RoomTypeHint      *string `json:"roomTypeHint" validate:"omitempty,oneof=Physique Chimie"`
	Exam              *bool   `json:"exam"`
}

// ListMaterialRequestsQuery captures the supported list filters.
type ListMaterialRequestsQuery struct {
	TeacherID string `form:"teacherId" validate:"omitempty,uuid"`
	Date      string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status" validate:"omitempty,oneof=PENDING PLANNED REJECTED"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc ASC DESC"`
}
