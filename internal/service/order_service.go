package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/internal/platform/mailer"
	"github.com/diagnosis/taipei-trip/internal/platform/payment"
	"github.com/diagnosis/taipei-trip/internal/repo/postgres"
	"github.com/diagnosis/taipei-trip/internal/utils"
	"github.com/diagnosis/taipei-trip/pkg/events"
	"github.com/diagnosis/taipei-trip/pkg/logger"
)

// OrderService turns a staged booking into a persisted order: allocate a
// number, charge the provider once, write the order and retire the
// booking atomically. A provider decline still produces an order; only a
// transport failure aborts the transition and leaves the booking staged.
type OrderService struct {
	orders   postgres.OrdersRepo
	payments payment.Client
	bus      events.Publisher
	mail     mailer.Service
	now      func() time.Time
}

func NewOrderService(orders postgres.OrdersRepo, payments payment.Client, bus events.Publisher, mail mailer.Service) *OrderService {
	return &OrderService{
		orders:   orders,
		payments: payments,
		bus:      bus,
		mail:     mail,
		now:      time.Now,
	}
}

// SubmitResult carries the allocated number and the provider's raw
// response; the client reads the embedded status to render the outcome.
type SubmitResult struct {
	Number  string          `json:"number"`
	Payment json.RawMessage `json:"payment"`
}

func (s *OrderService) Submit(ctx context.Context, userID int64, req *domain.OrderRequest) (*SubmitResult, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	number, err := s.allocateNumber(ctx)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, logger.OrderKey, number)

	res, err := s.payments.PayByPrime(ctx, &payment.PrimeRequest{
		Prime:       req.Prime,
		Amount:      req.Order.Price,
		OrderNumber: number,
		Details:     "Taipei day trip: " + req.Order.Trip.Attraction.Name,
		Cardholder: payment.Cardholder{
			PhoneNumber: req.Order.Contact.Phone,
			Name:        req.Order.Contact.Name,
			Email:       req.Order.Contact.Email,
		},
	})
	if err != nil {
		// No order row is written; the booking stays staged for retry.
		return nil, domain.Wrap(domain.KindUpstream, "payment provider unavailable", err)
	}

	status := domain.OrderDeclined
	if res.Accepted() {
		status = domain.OrderPaid
	}

	order := &domain.Order{
		Number:       number,
		UserID:       userID,
		AttractionID: req.Order.Trip.Attraction.ID,
		Date:         req.Order.Trip.Date,
		Time:         req.Order.Trip.Time,
		Price:        req.Order.Price,
		Contact:      req.Order.Contact,
		Status:       status,
		CreatedAt:    s.now(),
	}
	if err := s.orders.CreateAndClearBooking(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	if status == domain.OrderPaid && s.mail != nil {
		if err := s.mail.SendOrderReceipt(order.Contact.Email, order.Contact.Name, number, order.Price); err != nil {
			logger.WarnContext(ctx, "receipt email failed", "error", err)
		}
	}

	logger.InfoContext(ctx, "order submitted",
		"user_id", userID, "status", status, "provider_status", res.Status)
	return &SubmitResult{Number: number, Payment: res.Raw}, nil
}

func (s *OrderService) Fetch(ctx context.Context, number string, userID int64) (*domain.OrderDetail, error) {
	return s.orders.FetchByNumber(ctx, number, userID)
}

func (s *OrderService) allocateNumber(ctx context.Context) (string, error) {
	dayPrefix := s.now().Format("20060102")
	seq, err := s.orders.AllocateSeq(ctx, dayPrefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", dayPrefix, seq), nil
}

func (s *OrderService) publish(ctx context.Context, o *domain.Order) {
	if s.bus == nil {
		return
	}
	subject := events.OrderCreated
	if o.Status == domain.OrderDeclined {
		subject = events.OrderDeclined
	}
	err := s.bus.Publish(ctx, subject, events.OrderEvent{
		OrderNumber:  o.Number,
		UserID:       o.UserID,
		AttractionID: o.AttractionID,
		Price:        o.Price,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	})
	if err != nil {
		logger.WarnContext(ctx, "order event publish failed", "error", err)
	}
}

func validateOrderRequest(req *domain.OrderRequest) error {
	switch {
	case req.Prime == "":
		return domain.E(domain.KindValidation, "prime token is required")
	case req.Order.Price <= 0:
		return domain.E(domain.KindValidation, "price must be positive")
	case req.Order.Trip.Attraction.ID <= 0:
		return domain.E(domain.KindValidation, "trip attraction is required")
	case req.Order.Trip.Time == "":
		return domain.E(domain.KindValidation, "trip time is required")
	case req.Order.Contact.Name == "" || req.Order.Contact.Phone == "":
		return domain.E(domain.KindValidation, "contact name and phone are required")
	case !utils.IsValidEmail(req.Order.Contact.Email):
		return domain.E(domain.KindValidation, "contact email is invalid")
	}
	if _, err := time.Parse("2006-01-02", req.Order.Trip.Date); err != nil {
		return domain.E(domain.KindValidation, "trip date must be YYYY-MM-DD")
	}
	return nil
}
