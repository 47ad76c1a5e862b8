package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	messagingsvc "github.com/kashodiya/milan/internal/services/messaging"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type MessageHandler struct {
	service *messagingsvc.Service
}

func NewMessageHandler(service *messagingsvc.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	msg, err := h.service.SendMessage(r.Context(), identity.UserID, req.ReceiverID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, messagingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid message payload")
		case errors.Is(err, messagingsvc.ErrMessagingNotAllowed):
			writeForbidden(w, "MESSAGING_NOT_ALLOWED", "an accepted connection or active membership is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send message")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, messageResponse(msg))
}

func (h *MessageHandler) ListConversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	partnerID, ok := parseID(chi.URLParam(r, "partnerID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid partner id")
		return
	}

	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)

	items, err := h.service.ListConversation(r.Context(), identity.UserID, partnerID, offset, limit)
	if err != nil {
		switch {
		case errors.Is(err, messagingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid conversation request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load conversation")
		}
		return
	}

	responseItems := make([]dto.MessageResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, messageResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Items: responseItems})
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGING_SERVICE_UNAVAILABLE", "messaging service is unavailable")
		return
	}

	messageID, ok := parseID(chi.URLParam(r, "messageID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message id")
		return
	}

	if err := h.service.MarkRead(r.Context(), messageID, identity.UserID); err != nil {
		switch {
		case errors.Is(err, messagingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid mark-read request")
		case errors.Is(err, messagingsvc.ErrMessageNotFound):
			writeNotFound(w, "MESSAGE_NOT_FOUND", "message not found")
		case errors.Is(err, messagingsvc.ErrNotMessageReceiver):
			writeForbidden(w, "NOT_RECEIVER", "only the receiver may mark a message read")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to mark message read")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func messageResponse(msg model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Text:       msg.Text,
		SentAt:     msg.SentAt,
		ReadAt:     msg.ReadAt,
	}
}
