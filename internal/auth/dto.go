package auth

import "time"

type TeacherRegisterRequest struct {
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	ConfirmPassword string    `json:"confirmPassword"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Subject         string    `json:"subject"`
	BirthDate       time.Time `json:"birthDate"`
}

type StudentRegisterRequest struct {
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	ConfirmPassword string    `json:"confirmPassword"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	BirthDate       time.Time `json:"birthDate"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
