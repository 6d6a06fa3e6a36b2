package business

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/metrics"
	"pricewatch_api/pkg/logger"
)

const DefaultDeliveryTimeout = 5 * time.Second

// NotifySummary acknowledges a price event. It is not a delivery receipt.
type NotifySummary struct {
	ProductID  int64 `json:"product_id"`
	Matched    int   `json:"matched"`
	Dispatched int   `json:"dispatched"`
}

type EngineConfig struct {
	// DeliveryTimeout bounds each webhook call.
	DeliveryTimeout time.Duration
	// RateLimiter throttles dispatch across all events. Nil means unlimited.
	RateLimiter *rate.Limiter
}

// NotifyEngine matches price events against stored watches and fans out webhook deliveries.
type NotifyEngine struct {
	store   WatchStore
	sender  WebhookSender
	cfg     EngineConfig
	log     logger.Logger
	metrics *metrics.DeliveryMetrics
	wg      sync.WaitGroup
}

func NewNotifyEngine(store WatchStore, sender WebhookSender, cfg EngineConfig, log logger.Logger) *NotifyEngine {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = DefaultDeliveryTimeout
	}
	return &NotifyEngine{
		store:   store,
		sender:  sender,
		cfg:     cfg,
		log:     log.WithPrefix("[NotifyEngine]"),
		metrics: &metrics.DeliveryMetrics{},
	}
}

// Notify dispatches one delivery per matching watch and returns as soon as every dispatch is issued.
// Delivery failures never reach the caller; only a failed store lookup does.
func (e *NotifyEngine) Notify(ctx context.Context, event models.PriceEvent) (NotifySummary, error) {
	summary := NotifySummary{ProductID: event.ProductID}
	if err := validateEvent(event); err != nil {
		return summary, err
	}
	e.log.Info("finding_watches", "product_id", event.ProductID, "current_price", event.CurrentPrice)

	watches, err := e.store.FindTriggered(ctx, event.ProductID, event.CurrentPrice)
	if err != nil {
		return summary, fmt.Errorf("find triggered watches: %w", err)
	}
	summary.Matched = len(watches)
	e.metrics.MatchedCount.Add(int64(len(watches)))
	if len(watches) == 0 {
		return summary, nil
	}

	content := FormatMessage(event)
	// Deliveries outlive the request that triggered them.
	detached := context.WithoutCancel(ctx)
	for _, w := range watches {
		e.wg.Add(1)
		go func(w models.Watch) {
			defer e.wg.Done()
			e.deliver(detached, w, content)
		}(w)
		summary.Dispatched++
	}
	return summary, nil
}

func (e *NotifyEngine) deliver(ctx context.Context, w models.Watch, content string) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.DeliveryTimeout)
	defer cancel()

	start := time.Now()
	err := e.send(ctx, w, content)
	elapsed := time.Since(start)
	if err != nil {
		derr := &DeliveryError{WatchID: w.ID, Err: err}
		e.metrics.FailedCount.Add(1)
		metrics.RecordDelivery(metrics.OutcomeFailed, elapsed)
		e.log.Warn("delivery_failed", "watch_id", w.ID, "user_id", w.UserID, "error", derr.Error())
		return
	}
	e.metrics.DeliveredCount.Add(1)
	metrics.RecordDelivery(metrics.OutcomeDelivered, elapsed)
	e.log.Debug("delivered", "watch_id", w.ID, "latency_ms", elapsed.Milliseconds())
}

func (e *NotifyEngine) send(ctx context.Context, w models.Watch, content string) error {
	if e.cfg.RateLimiter != nil {
		if err := e.cfg.RateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("limiter: %w", err)
		}
	}
	return e.sender.Send(ctx, w.DeliveryEndpoint, content)
}

// Wait blocks until every issued delivery has finished or ctx is done. It reports whether the engine drained.
func (e *NotifyEngine) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *NotifyEngine) Metrics() *metrics.DeliveryMetrics {
	return e.metrics
}

func validateEvent(event models.PriceEvent) error {
	if event.ProductID <= 0 {
		return fmt.Errorf("%w: product_id must be positive", ErrInvalidPriceEvent)
	}
	if event.CurrentPrice < 0 || event.PreviousPrice < 0 {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidPriceEvent)
	}
	return nil
}
