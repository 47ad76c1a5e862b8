package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

type UserResponse struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Status          string     `json:"status"`
	ProfileComplete bool       `json:"profile_complete"`
	RegisteredAt    time.Time  `json:"registered_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`
}
