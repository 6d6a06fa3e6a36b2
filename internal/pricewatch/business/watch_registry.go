package business

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/internal/pricewatch/storage/repositories"
	"pricewatch_api/pkg/logger"
)

// WatchRegistry owns the watch lifecycle. It keeps no state between calls; every read goes to the store.
type WatchRegistry struct {
	store WatchStore
	log   logger.Logger
}

func NewWatchRegistry(store WatchStore, log logger.Logger) *WatchRegistry {
	return &WatchRegistry{store: store, log: log.WithPrefix("[WatchRegistry]")}
}

// Create persists a new watch. A second watch for the same (userID, productID) returns *DuplicateWatchError and changes nothing.
func (r *WatchRegistry) Create(ctx context.Context, userID, productID int64, price float64, endpoint string) (*models.Watch, error) {
	if err := validateWatch(userID, productID, price, endpoint); err != nil {
		return nil, err
	}
	r.log.Info("creating_watch", "user_id", userID, "product_id", productID, "price", price)

	w, err := r.store.Insert(ctx, models.Watch{
		UserID:           userID,
		ProductID:        productID,
		Price:            price,
		DeliveryEndpoint: endpoint,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			r.log.Info("duplicate_watch", "user_id", userID, "product_id", productID)
			return nil, &DuplicateWatchError{UserID: userID, ProductID: productID}
		}
		r.log.Error("create_watch_failed", "error", err)
		return nil, fmt.Errorf("create watch: %w", err)
	}
	return w, nil
}

func (r *WatchRegistry) Get(ctx context.Context, id int64) (*models.Watch, error) {
	w, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWatchNotFound
		}
		return nil, fmt.Errorf("get watch: %w", err)
	}
	return w, nil
}

// List returns every persisted watch in store order. With ids set, only those watches are returned.
func (r *WatchRegistry) List(ctx context.Context, ids ...int64) ([]models.Watch, error) {
	var (
		watches []models.Watch
		err     error
	)
	if len(ids) > 0 {
		watches, err = r.store.FindByIDs(ctx, ids)
	} else {
		watches, err = r.store.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list watches: %w", err)
	}
	return watches, nil
}

func validateWatch(userID, productID int64, price float64, endpoint string) error {
	if userID <= 0 || productID <= 0 {
		return fmt.Errorf("%w: user_id and product_id must be positive", ErrInvalidWatch)
	}
	if !(price > 0) {
		return fmt.Errorf("%w: price must be positive", ErrInvalidWatch)
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: delivery_endpoint must be an absolute http(s) URL", ErrInvalidWatch)
	}
	return nil
}
