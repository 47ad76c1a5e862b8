package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	relsvc "github.com/kashodiya/milan/internal/services/relationship"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type ConnectionHandler struct {
	service *relsvc.Service
}

func NewConnectionHandler(service *relsvc.Service) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	var req dto.CreateConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	status := enums.ConnectionStatus(req.Status)
	if req.Status == "" {
		status = enums.ConnectionPending
	}

	conn, err := h.service.Create(r.Context(), identity.UserID, req.ReceiverID, status)
	if err != nil {
		switch {
		case errors.Is(err, relsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid connection request")
		case errors.Is(err, relsvc.ErrConnectionExists):
			writeConflict(w, "CONNECTION_EXISTS", "a connection already exists between these users")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create connection")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, connectionResponse(conn))
}

func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	status := enums.ConnectionStatus(r.URL.Query().Get("status"))
	items, err := h.service.ListForUser(r.Context(), identity.UserID, status)
	if err != nil {
		switch {
		case errors.Is(err, relsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid status filter")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load connections")
		}
		return
	}

	responseItems := make([]dto.ConnectionResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, connectionResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.ConnectionsResponse{Items: responseItems})
}

func (h *ConnectionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	connectionID, ok := parseID(chi.URLParam(r, "connectionID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid connection id")
		return
	}

	var req dto.UpdateConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	conn, err := h.service.UpdateStatus(r.Context(), connectionID, identity.UserID, enums.ConnectionStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, relsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid connection update")
		case errors.Is(err, relsvc.ErrConnectionNotFound):
			writeNotFound(w, "CONNECTION_NOT_FOUND", "connection not found")
		case errors.Is(err, relsvc.ErrNotReceiver):
			writeForbidden(w, "NOT_RECEIVER", "only the receiver may update this connection")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update connection")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, connectionResponse(conn))
}

func connectionResponse(conn model.Connection) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:         conn.ID,
		SenderID:   conn.SenderID,
		ReceiverID: conn.ReceiverID,
		Status:     string(conn.Status),
		CreatedAt:  conn.CreatedAt,
		UpdatedAt:  conn.UpdatedAt,
	}
}
