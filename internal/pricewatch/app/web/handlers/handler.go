package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pricewatch_api/internal/health"
	"pricewatch_api/internal/pricewatch/business"
	"pricewatch_api/internal/pricewatch/models"
)

type WatchService interface {
	Create(ctx context.Context, userID, productID int64, price float64, endpoint string) (*models.Watch, error)
	Get(ctx context.Context, id int64) (*models.Watch, error)
	List(ctx context.Context, ids ...int64) ([]models.Watch, error)
}

type Verifier interface {
	Verify(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error)
}

type Notifier interface {
	Notify(ctx context.Context, event models.PriceEvent) (business.NotifySummary, error)
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) (health.Status, []health.Check)
}

type Toggler interface {
	Toggle() health.Status
}

type MetricsSource interface {
	GetMetrics(ctx context.Context) []health.Metric
}

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Message: msg})
}
