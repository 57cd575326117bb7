package dto

// CreateTeacherRequest registers an instructor.
type CreateTeacherRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	FullName   string  `json:"fullName" validate:"required"`
	Phone      *string `json:"phone"`
	Discipline *string `json:"discipline" validate:"omitempty,oneof=Physique Chimie"`
}

// UpdateTeacherRequest modifies an instructor. Nil fields are left
// untouched.
type UpdateTeacherRequest struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	FullName   *string `json:"fullName"`
	Phone      *string `json:"phone"`
	Discipline *string `json:"discipline" validate:"omitempty,oneof=Physique Chimie"`
	Active     *bool   `json:"active"`
}
