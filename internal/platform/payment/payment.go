package payment

import (
	"context"
	"encoding/json"
)

// StatusAccepted is the provider's code for an accepted charge.
const StatusAccepted = 0

// Client charges a one-time prime token. One synchronous call, no
// built-in retry; a transport failure means no charge was recorded.
type Client interface {
	PayByPrime(ctx context.Context, req *PrimeRequest) (*Result, error)
}

type PrimeRequest struct {
	Prime       string
	Amount      int
	OrderNumber string
	Details     string
	Cardholder  Cardholder
}

type Cardholder struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// Result carries the provider's decoded status plus the raw response
// body, which is echoed back to the client untouched.
type Result struct {
	Status  int
	Message string
	Raw     json.RawMessage
}

// Accepted reports whether the provider accepted the charge. A decline
// is a valid business outcome, not an error.
func (r *Result) Accepted() bool { return r.Status == StatusAccepted }
