package models

// Watch asks for a notification at DeliveryEndpoint once ProductID is priced at or below Price.
type Watch struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"user_id"`
	ProductID        int64   `json:"product_id"`
	Price            float64 `json:"price"`
	DeliveryEndpoint string  `json:"-"`
}

// PriceEvent is reported by the price tracker and never persisted.
type PriceEvent struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousPrice float64 `json:"previous_price"`
	Seller        string  `json:"seller"`
}

type VerifiedUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
