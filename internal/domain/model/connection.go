package model

import (
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
)

// Connection is a directed relationship-request edge. The unordered pair
// {SenderID, ReceiverID} has at most one connection regardless of status.
type Connection struct {
	ID         int64                  `json:"id"`
	SenderID   int64                  `json:"sender_id"`
	ReceiverID int64                  `json:"receiver_id"`
	Status     enums.ConnectionStatus `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}
