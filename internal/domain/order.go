package domain

import (
	"regexp"
	"time"
)

// Order payment status. A declined charge is still a recorded order.
const (
	OrderDeclined = 0
	OrderPaid     = 1
)

// OrderNumberPattern matches the date-scoped order number scheme,
// e.g. 20250301-0007.
var OrderNumberPattern = regexp.MustCompile(`^\d{8}-\d{4}$`)

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is immutable once written.
type Order struct {
	Number       string
	UserID       int64
	AttractionID int64
	Date         string
	Time         string
	Price        int
	Contact      Contact
	Status       int
	CreatedAt    time.Time
}

// OrderDetail is the order joined with its attraction snapshot, as
// returned by GET /api/order/{number}.
type OrderDetail struct {
	Number  string  `json:"number"`
	Price   int     `json:"price"`
	Trip    Trip    `json:"trip"`
	Contact Contact `json:"contact"`
	Status  int     `json:"status"`
}

type Trip struct {
	Attraction AttractionSummary `json:"attraction"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
}

// OrderRequest is the POST /api/order body.
type OrderRequest struct {
	Prime string    `json:"prime"`
	Order OrderData `json:"order"`
}

type OrderData struct {
	Price   int       `json:"price"`
	Trip    TripInput `json:"trip"`
	Contact Contact   `json:"contact"`
}

type TripInput struct {
	Attraction AttractionSummary `json:"attraction"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
}
