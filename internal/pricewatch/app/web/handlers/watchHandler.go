package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pricewatch_api/internal/pricewatch/business"
	"pricewatch_api/pkg/logger"
)

type createWatchRequest struct {
	UserID           int64   `json:"user_id"`
	Token            string  `json:"token"`
	ProductID        int64   `json:"product_id"`
	Price            float64 `json:"price"`
	DeliveryEndpoint string  `json:"delivery_endpoint"`
}

type WatchHandler struct {
	watches  WatchService
	verifier Verifier
	log      logger.Logger
}

func NewWatchHandler(watches WatchService, verifier Verifier, log logger.Logger) *WatchHandler {
	return &WatchHandler{watches: watches, verifier: verifier, log: log}
}

// Create handles POST /notifications.
func (h *WatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}

	user, err := h.verifier.Verify(r.Context(), req.UserID, req.Token)
	if err != nil {
		if errors.Is(err, business.ErrIdentityUnavailable) {
			writeMessage(w, http.StatusServiceUnavailable, "Identity service unavailable")
			return
		}
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	watch, err := h.watches.Create(r.Context(), user.ID, req.ProductID, req.Price, req.DeliveryEndpoint)
	if err != nil {
		var dup *business.DuplicateWatchError
		switch {
		case errors.As(err, &dup):
			writeMessage(w, http.StatusConflict, fmt.Sprintf("Notification for product %d already exists", dup.ProductID))
		case errors.Is(err, business.ErrInvalidWatch):
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("create_watch_failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create notification")
		}
		return
	}

	writeJSON(w, http.StatusCreated, watch)
}

// List handles GET /notifications, optionally narrowed by repeated ?id= parameters.
func (h *WatchHandler) List(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	for _, raw := range r.URL.Query()["id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw))
			return
		}
		ids = append(ids, id)
	}

	watches, err := h.watches.List(r.Context(), ids...)
	if err != nil {
		h.log.Error("list_watches_failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, watches)
}

// Get handles GET /notifications/{id}.
func (h *WatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	watch, err := h.watches.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, business.ErrWatchNotFound) {
			writeMessage(w, http.StatusNotFound, fmt.Sprintf("Notification %d not found", id))
			return
		}
		h.log.Error("get_watch_failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get notification")
		return
	}
	writeJSON(w, http.StatusOK, watch)
}
