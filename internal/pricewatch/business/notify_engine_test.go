package business

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/internal/pricewatch/pkg/clients"
	"pricewatch_api/pkg/logger"
)

type hookRecorder struct {
	mu       sync.Mutex
	contents []string
	hits     atomic.Int32
}

func (h *hookRecorder) server(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&p)
		h.mu.Lock()
		h.contents = append(h.contents, p.Content)
		h.mu.Unlock()
		h.hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func storeWith(watches ...models.Watch) *fakeStore {
	return &fakeStore{
		FindTriggeredFunc: func(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error) {
			var out []models.Watch
			for _, w := range watches {
				if w.ProductID == productID && w.Price >= currentPrice {
					out = append(out, w)
				}
			}
			return out, nil
		},
	}
}

func newEngine(store WatchStore, cfg EngineConfig) *NotifyEngine {
	return NewNotifyEngine(store, clients.NewWebhookClient(2*time.Second, logger.Discard()), cfg, logger.Discard())
}

func drain(t *testing.T, e *NotifyEngine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !e.Wait(ctx) {
		t.Fatalf("deliveries did not finish")
	}
}

var widgetEvent = models.PriceEvent{
	ProductID:     42,
	ProductName:   "Widget",
	CurrentPrice:  15.00,
	PreviousPrice: 25.00,
	Seller:        "Acme",
}

func TestNotifyNoMatches(t *testing.T) {
	rec := &hookRecorder{}
	srv := rec.server(t, http.StatusOK)
	e := newEngine(storeWith(models.Watch{ID: 1, ProductID: 42, Price: 10, DeliveryEndpoint: srv.URL}), EngineConfig{})

	summary, err := e.Notify(context.Background(), widgetEvent)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	drain(t, e)
	if summary.Matched != 0 || summary.Dispatched != 0 || rec.hits.Load() != 0 {
		t.Fatalf("expected no deliveries, got %+v hits=%d", summary, rec.hits.Load())
	}
}

func TestNotifySingleMatch(t *testing.T) {
	rec := &hookRecorder{}
	srv := rec.server(t, http.StatusOK)
	e := newEngine(storeWith(
		models.Watch{ID: 1, UserID: 7, ProductID: 42, Price: 19.99, DeliveryEndpoint: srv.URL},
		models.Watch{ID: 2, UserID: 7, ProductID: 43, Price: 99, DeliveryEndpoint: srv.URL},
	), EngineConfig{})

	summary, err := e.Notify(context.Background(), widgetEvent)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	drain(t, e)
	if summary.Matched != 1 || summary.Dispatched != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if rec.hits.Load() != 1 {
		t.Fatalf("expected exactly one webhook call, got %d", rec.hits.Load())
	}
	for _, want := range []string{"Widget", "25.0", "15.0", "Acme"} {
		if !strings.Contains(rec.contents[0], want) {
			t.Fatalf("message %q missing %q", rec.contents[0], want)
		}
	}
	if e.Metrics().DeliveredCount.Load() != 1 {
		t.Fatalf("delivered counter not updated")
	}
}

func TestNotifyFailuresAreIsolated(t *testing.T) {
	good := &hookRecorder{}
	goodSrv := good.server(t, http.StatusOK)
	bad := &hookRecorder{}
	badSrv := bad.server(t, http.StatusInternalServerError)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer slow.Close()

	e := newEngine(storeWith(
		models.Watch{ID: 1, ProductID: 42, Price: 20, DeliveryEndpoint: badSrv.URL},
		models.Watch{ID: 2, ProductID: 42, Price: 20, DeliveryEndpoint: slow.URL},
		models.Watch{ID: 3, ProductID: 42, Price: 20, DeliveryEndpoint: "http://127.0.0.1:1/unreachable"},
		models.Watch{ID: 4, ProductID: 42, Price: 20, DeliveryEndpoint: goodSrv.URL},
	), EngineConfig{DeliveryTimeout: 200 * time.Millisecond})

	summary, err := e.Notify(context.Background(), widgetEvent)
	if err != nil {
		t.Fatalf("delivery failures must not surface: %v", err)
	}
	drain(t, e)
	if summary.Dispatched != 4 {
		t.Fatalf("expected 4 dispatches, got %+v", summary)
	}
	if good.hits.Load() != 1 || bad.hits.Load() != 1 {
		t.Fatalf("good=%d bad=%d", good.hits.Load(), bad.hits.Load())
	}
	m := e.Metrics()
	if m.DeliveredCount.Load() != 1 || m.FailedCount.Load() != 3 {
		t.Fatalf("delivered=%d failed=%d", m.DeliveredCount.Load(), m.FailedCount.Load())
	}
}

func TestNotifyReturnsBeforeDeliveryCompletes(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	e := newEngine(storeWith(models.Watch{ID: 1, ProductID: 42, Price: 20, DeliveryEndpoint: srv.URL}), EngineConfig{})
	reqCtx, cancelReq := context.WithCancel(context.Background())
	summary, err := e.Notify(reqCtx, widgetEvent)
	cancelReq()
	if err != nil || summary.Dispatched != 1 {
		t.Fatalf("notify: %v %+v", err, summary)
	}

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if e.Wait(short) {
		t.Fatalf("delivery should still be in flight")
	}
	close(release)
	drain(t, e)
	if e.Metrics().DeliveredCount.Load() != 1 {
		t.Fatalf("cancelling the request context must not cancel delivery")
	}
}

func TestNotifyRateLimiterRejection(t *testing.T) {
	rec := &hookRecorder{}
	srv := rec.server(t, http.StatusOK)
	// Zero burst makes every Wait fail immediately.
	limiter := rate.NewLimiter(rate.Limit(1), 0)
	e := newEngine(storeWith(models.Watch{ID: 1, ProductID: 42, Price: 20, DeliveryEndpoint: srv.URL}),
		EngineConfig{RateLimiter: limiter})

	if _, err := e.Notify(context.Background(), widgetEvent); err != nil {
		t.Fatalf("notify: %v", err)
	}
	drain(t, e)
	if rec.hits.Load() != 0 || e.Metrics().FailedCount.Load() != 1 {
		t.Fatalf("limiter rejection should count as a failed delivery")
	}
}

func TestNotifyStoreErrorAndValidation(t *testing.T) {
	storeErr := errors.New("connection reset")
	e := newEngine(&fakeStore{
		FindTriggeredFunc: func(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error) {
			return nil, storeErr
		},
	}, EngineConfig{})
	if _, err := e.Notify(context.Background(), widgetEvent); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, err := e.Notify(context.Background(), models.PriceEvent{ProductID: 0}); !errors.Is(err, ErrInvalidPriceEvent) {
		t.Fatalf("expected ErrInvalidPriceEvent, got %v", err)
	}
}
