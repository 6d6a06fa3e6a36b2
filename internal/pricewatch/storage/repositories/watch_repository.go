package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"pricewatch_api/config"
	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/pkg/dbconnect"
)

var (
	ErrUniqueViolation = errors.New("unique constraint violated")
	ErrNotFound        = errors.New("row not found")
)

const uniqueViolation = pq.ErrorCode("23505")

type WatchRepository struct {
	db     *sql.DB
	driver string
}

func NewWatchRepository(db *sql.DB, driver string) *WatchRepository {
	return &WatchRepository{
		db:     db,
		driver: driver,
	}
}

func (r *WatchRepository) query(q string) string {
	return dbconnect.Rebind(r.driver, q)
}

// Insert stores w atomically. An existing (user_id, product_id) row yields ErrUniqueViolation and leaves the table unchanged.
func (r *WatchRepository) Insert(ctx context.Context, w models.Watch) (*models.Watch, error) {
	query := r.query(`
				INSERT INTO watches (user_id, product_id, price, delivery_endpoint)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (user_id, product_id) DO NOTHING
				RETURNING id, user_id, product_id, price, delivery_endpoint
			 `)
	var created models.Watch
	err := r.db.QueryRowContext(ctx, query, w.UserID, w.ProductID, w.Price, w.DeliveryEndpoint).Scan(
		&created.ID, &created.UserID, &created.ProductID, &created.Price, &created.DeliveryEndpoint,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return nil, ErrUniqueViolation
		}
		return nil, fmt.Errorf("failed to insert watch: %w", err)
	}
	return &created, nil
}

func (r *WatchRepository) GetByID(ctx context.Context, id int64) (*models.Watch, error) {
	query := r.query(`
				SELECT id, user_id, product_id, price, delivery_endpoint FROM watches
				WHERE id = ?
			 `)
	var w models.Watch
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.UserID, &w.ProductID, &w.Price, &w.DeliveryEndpoint,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get watch %d: %w", id, err)
	}
	return &w, nil
}

func (r *WatchRepository) List(ctx context.Context) ([]models.Watch, error) {
	return r.selectWatches(ctx, `
				SELECT id, user_id, product_id, price, delivery_endpoint FROM watches
				ORDER BY id
			 `)
}

// FindTriggered returns the watches on productID whose ceiling is at or above currentPrice.
func (r *WatchRepository) FindTriggered(ctx context.Context, productID int64, currentPrice float64) ([]models.Watch, error) {
	return r.selectWatches(ctx, `
				SELECT id, user_id, product_id, price, delivery_endpoint FROM watches
				WHERE product_id = ? AND price >= ?
			 `, productID, currentPrice)
}

// FindByIDs backs the id filter on the list endpoint. Unknown ids are skipped.
func (r *WatchRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Watch, error) {
	if r.driver != config.DriverPostgres {
		out := make([]models.Watch, 0, len(ids))
		for _, id := range ids {
			w, err := r.GetByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, *w)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	return r.selectWatches(ctx, `
				SELECT id, user_id, product_id, price, delivery_endpoint FROM watches
				WHERE id = ANY(?)
				ORDER BY id
			 `, pq.Array(ids))
}

// Ping is a trivial query round-trip used by the health check.
func (r *WatchRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store round-trip failed: %w", err)
	}
	return nil
}

func (r *WatchRepository) selectWatches(ctx context.Context, query string, args ...any) ([]models.Watch, error) {
	rows, err := r.db.QueryContext(ctx, r.query(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query watches: %w", err)
	}
	defer rows.Close()

	watches := make([]models.Watch, 0)
	for rows.Next() {
		var w models.Watch
		if err := rows.Scan(&w.ID, &w.UserID, &w.ProductID, &w.Price, &w.DeliveryEndpoint); err != nil {
			return nil, fmt.Errorf("failed to scan watch: %w", err)
		}
		watches = append(watches, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watches: %w", err)
	}

	return watches, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
