package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pricewatch_api/internal/pricewatch/business"
	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/pkg/logger"
)

type NotifyHandler struct {
	engine Notifier
	log    logger.Logger
}

func NewNotifyHandler(engine Notifier, log logger.Logger) *NotifyHandler {
	return &NotifyHandler{engine: engine, log: log}
}

// ServeHTTP handles POST /notify. The response acknowledges the event; it says nothing about delivery.
func (h *NotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var event models.PriceEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to decode request body")
		return
	}

	summary, err := h.engine.Notify(r.Context(), event)
	if err != nil {
		if errors.Is(err, business.ErrInvalidPriceEvent) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("notify_failed", "product_id", event.ProductID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to process price event")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
