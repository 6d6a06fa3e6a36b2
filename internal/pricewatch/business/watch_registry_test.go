package business

import (
	"context"
	"errors"
	"testing"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/internal/pricewatch/storage/repositories"
	"pricewatch_api/pkg/logger"
)

func TestCreateWatch(t *testing.T) {
	store := &fakeStore{
		InsertFunc: func(ctx context.Context, w models.Watch) (*models.Watch, error) {
			w.ID = 1
			return &w, nil
		},
	}
	r := NewWatchRegistry(store, logger.Discard())
	w, err := r.Create(context.Background(), 7, 42, 19.99, "https://hooks.example.com/x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.ID != 1 || w.UserID != 7 || w.ProductID != 42 || w.Price != 19.99 {
		t.Fatalf("unexpected watch: %+v", w)
	}
}

func TestCreateWatchDuplicate(t *testing.T) {
	store := &fakeStore{
		InsertFunc: func(ctx context.Context, w models.Watch) (*models.Watch, error) {
			return nil, repositories.ErrUniqueViolation
		},
	}
	_, err := NewWatchRegistry(store, logger.Discard()).Create(context.Background(), 7, 42, 19.99, "http://x")
	var dup *DuplicateWatchError
	if !errors.As(err, &dup) || dup.ProductID != 42 || dup.UserID != 7 {
		t.Fatalf("expected DuplicateWatchError, got %v", err)
	}
	if errors.Is(err, repositories.ErrUniqueViolation) {
		t.Fatalf("store error must not leak through the registry")
	}
}

func TestCreateWatchValidation(t *testing.T) {
	called := false
	store := &fakeStore{
		InsertFunc: func(ctx context.Context, w models.Watch) (*models.Watch, error) {
			called = true
			return &w, nil
		},
	}
	r := NewWatchRegistry(store, logger.Discard())
	tests := []struct {
		name     string
		user     int64
		product  int64
		price    float64
		endpoint string
	}{
		{"zero user", 0, 1, 1, "http://x"},
		{"zero product", 1, 0, 1, "http://x"},
		{"zero price", 1, 1, 0, "http://x"},
		{"negative price", 1, 1, -3, "http://x"},
		{"relative endpoint", 1, 1, 1, "/hook"},
		{"non http endpoint", 1, 1, 1, "ftp://x/y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(context.Background(), tt.user, tt.product, tt.price, tt.endpoint)
			if !errors.Is(err, ErrInvalidWatch) {
				t.Fatalf("expected ErrInvalidWatch, got %v", err)
			}
		})
	}
	if called {
		t.Fatalf("store reached with invalid input")
	}
}

func TestGetWatch(t *testing.T) {
	store := &fakeStore{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Watch, error) {
			if id == 1 {
				return &models.Watch{ID: 1}, nil
			}
			return nil, repositories.ErrNotFound
		},
	}
	r := NewWatchRegistry(store, logger.Discard())
	if w, err := r.Get(context.Background(), 1); err != nil || w.ID != 1 {
		t.Fatalf("get existing: %v %+v", err, w)
	}
	if _, err := r.Get(context.Background(), 2); !errors.Is(err, ErrWatchNotFound) {
		t.Fatalf("expected ErrWatchNotFound, got %v", err)
	}
}

func TestListWatches(t *testing.T) {
	var byIDs []int64
	store := &fakeStore{
		ListFunc: func(ctx context.Context) ([]models.Watch, error) {
			return []models.Watch{{ID: 1}, {ID: 2}}, nil
		},
		FindByIDsFunc: func(ctx context.Context, ids []int64) ([]models.Watch, error) {
			byIDs = ids
			return []models.Watch{{ID: 2}}, nil
		},
	}
	r := NewWatchRegistry(store, logger.Discard())
	all, err := r.List(context.Background())
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %+v", err, all)
	}
	some, err := r.List(context.Background(), 2)
	if err != nil || len(some) != 1 || len(byIDs) != 1 || byIDs[0] != 2 {
		t.Fatalf("list by ids: %v %+v", err, some)
	}
}
