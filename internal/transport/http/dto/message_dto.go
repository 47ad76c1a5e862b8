package dto

import "time"

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Text       string `json:"text"`
}

type MessageResponse struct {
	ID         int64      `json:"id"`
	SenderID   int64      `json:"sender_id"`
	ReceiverID int64      `json:"receiver_id"`
	Text       string     `json:"text"`
	SentAt     time.Time  `json:"sent_at"`
	ReadAt     *time.Time `json:"read_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}
