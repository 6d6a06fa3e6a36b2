package business

import (
	"context"

	"pricewatch_api/internal/pricewatch/models"
)

// WatchStore is the slice of the datastore gateway the business layer needs.
type WatchStore interface {
	Insert(ctx context.Context, w models.Watch) (*models.Watch, error)
	GetByID(ctx context.Context, id int64) (*models.Watch, error)
	List(ctx context.Context) ([]models.Watch, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Watch, error)
	FindTriggered(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error)
}

type UserResolver interface {
	UserByToken(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error)
}

type WebhookSender interface {
	Send(ctx context.Context, endpoint, content string) error
}
