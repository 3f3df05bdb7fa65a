package domain

// Booking is the single staged trip selection a user holds before
// payment. At most one row exists per user; staging replaces it.
type Booking struct {
	UserID       int64
	AttractionID int64
	Date         string
	Time         string
	Price        int
}

type BookingReq struct {
	AttractionID int64  `json:"attractionId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Price        int    `json:"price"`
}

// BookingDetail is the staged booking joined with its attraction
// summary, as returned by GET /api/booking.
type BookingDetail struct {
	Attraction AttractionSummary `json:"attraction"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Price      int               `json:"price"`
}
