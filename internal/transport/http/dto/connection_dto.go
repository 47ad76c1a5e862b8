package dto

import "time"

type CreateConnectionRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Status     string `json:"status"`
}

type UpdateConnectionRequest struct {
	Status string `json:"status"`
}

type ConnectionResponse struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ConnectionsResponse struct {
	Items []ConnectionResponse `json:"items"`
}
