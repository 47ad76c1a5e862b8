package model

import (
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
)

type User struct {
	ID              int64               `json:"id"`
	Email           string              `json:"email"`
	Status          enums.AccountStatus `json:"status"`
	ProfileComplete bool                `json:"profile_complete"`
	RegisteredAt    time.Time           `json:"registered_at"`
	LastLoginAt     *time.Time          `json:"last_login_at"`
}
