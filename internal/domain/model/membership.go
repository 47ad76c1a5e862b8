package model

import (
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
)

type Membership struct {
	UserID        int64                `json:"user_id"`
	Tier          enums.MembershipTier `json:"tier"`
	StartAt       time.Time            `json:"start_at"`
	EndAt         time.Time            `json:"end_at"`
	PaymentStatus string               `json:"payment_status"`
}
