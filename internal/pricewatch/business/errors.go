package business

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrIdentityUnavailable = errors.New("identity service unavailable")
	ErrWatchNotFound       = errors.New("watch not found")
	ErrInvalidWatch        = errors.New("invalid watch")
	ErrInvalidPriceEvent   = errors.New("invalid price event")
)

// DuplicateWatchError reports that the user already watches the product.
type DuplicateWatchError struct {
	UserID    int64
	ProductID int64
}

func (e *DuplicateWatchError) Error() string {
	return fmt.Sprintf("watch for user %d on product %d already exists", e.UserID, e.ProductID)
}

// DeliveryError is a failed webhook dispatch for one watch. It is logged and counted, never returned to the caller of Notify.
type DeliveryError struct {
	WatchID int64
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery for watch %d failed: %v", e.WatchID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
