package business

import (
	"context"

	"pricewatch_api/internal/pricewatch/models"
)

type fakeStore struct {
	InsertFunc        func(ctx context.Context, w models.Watch) (*models.Watch, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*models.Watch, error)
	ListFunc          func(ctx context.Context) ([]models.Watch, error)
	FindByIDsFunc     func(ctx context.Context, ids []int64) ([]models.Watch, error)
	FindTriggeredFunc func(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error)
}

func (f *fakeStore) Insert(ctx context.Context, w models.Watch) (*models.Watch, error) {
	return f.InsertFunc(ctx, w)
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.Watch, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeStore) List(ctx context.Context) ([]models.Watch, error) {
	return f.ListFunc(ctx)
}

func (f *fakeStore) FindByIDs(ctx context.Context, ids []int64) ([]models.Watch, error) {
	return f.FindByIDsFunc(ctx, ids)
}

func (f *fakeStore) FindTriggered(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error) {
	return f.FindTriggeredFunc(ctx, productID, currentPrice)
}

type fakeResolver struct {
	UserByTokenFunc func(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error)
}

func (f *fakeResolver) UserByToken(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error) {
	return f.UserByTokenFunc(ctx, userID, token)
}
