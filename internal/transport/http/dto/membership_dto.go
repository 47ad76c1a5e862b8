package dto

import "time"

type MembershipRequest struct {
	Tier          string    `json:"tier"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	PaymentStatus string    `json:"payment_status"`
}

type MembershipResponse struct {
	UserID        int64     `json:"user_id"`
	Tier          string    `json:"tier"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	PaymentStatus string    `json:"payment_status"`
}
