package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/internal/platform/payment"
	"github.com/diagnosis/taipei-trip/internal/service"
	"github.com/diagnosis/taipei-trip/pkg/events"
)

// ---------- Mocks ----------

type mockOrdersRepo struct {
	seq        int
	allocErr   error
	createErr  error
	created    []*domain.Order
	fetched    map[string]*domain.OrderDetail
	lastPrefix string
}

func (m *mockOrdersRepo) AllocateSeq(_ context.Context, dayPrefix string) (int, error) {
	if m.allocErr != nil {
		return 0, m.allocErr
	}
	m.lastPrefix = dayPrefix
	m.seq++
	return m.seq, nil
}

func (m *mockOrdersRepo) CreateAndClearBooking(_ context.Context, o *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, o)
	return nil
}

func (m *mockOrdersRepo) FetchByNumber(_ context.Context, number string, _ int64) (*domain.OrderDetail, error) {
	return m.fetched[number], nil
}

type mockPayments struct {
	result  *payment.Result
	err     error
	lastReq *payment.PrimeRequest
}

func (m *mockPayments) PayByPrime(_ context.Context, req *payment.PrimeRequest) (*payment.Result, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockBus struct {
	subjects []string
}

func (m *mockBus) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockBus) Close() error { return nil }

type mockMailer struct {
	receipts []string
	err      error
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	return "mock-id", m.err
}

func (m *mockMailer) SendOrderReceipt(toEmail, toName, orderNumber string, price int) error {
	m.receipts = append(m.receipts, orderNumber)
	return m.err
}

// ---------- Helpers ----------

func acceptedResult() *payment.Result {
	return &payment.Result{Status: 0, Message: "Success", Raw: json.RawMessage(`{"status":0,"msg":"Success"}`)}
}

func declinedResult() *payment.Result {
	return &payment.Result{Status: 10003, Message: "Card declined", Raw: json.RawMessage(`{"status":10003,"msg":"Card declined"}`)}
}

func validOrderRequest() *domain.OrderRequest {
	return &domain.OrderRequest{
		Prime: "prime-token",
		Order: domain.OrderData{
			Price: 2500,
			Trip: domain.TripInput{
				Attraction: domain.AttractionSummary{ID: 10, Name: "Elephant Mountain", Address: "Xinyi District"},
				Date:       "2025-03-15",
				Time:       "afternoon",
			},
			Contact: domain.Contact{Name: "Alice", Email: "alice@example.com", Phone: "0912345678"},
		},
	}
}

func newService(repo *mockOrdersRepo, pay *mockPayments, bus *mockBus, mail *mockMailer) *service.OrderService {
	return service.NewOrderService(repo, pay, bus, mail)
}

// ---------- Tests ----------

func TestSubmit_Accepted(t *testing.T) {
	repo := &mockOrdersRepo{}
	pay := &mockPayments{result: acceptedResult()}
	bus := &mockBus{}
	mail := &mockMailer{}

	result, err := newService(repo, pay, bus, mail).Submit(context.Background(), 7, validOrderRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !domain.OrderNumberPattern.MatchString(result.Number) {
		t.Fatalf("order number %q does not match the date-scoped scheme", result.Number)
	}
	wantPrefix := time.Now().Format("20060102")
	if result.Number[:8] != wantPrefix {
		t.Fatalf("order number prefix %q, want today %q", result.Number[:8], wantPrefix)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 order written, got %d", len(repo.created))
	}
	order := repo.created[0]
	if order.Status != domain.OrderPaid {
		t.Fatalf("expected paid status for accepted charge, got %d", order.Status)
	}
	if order.UserID != 7 || order.AttractionID != 10 || order.Price != 2500 {
		t.Fatalf("order fields wrong: %+v", order)
	}

	// Provider sees the allocated number and the contact as cardholder.
	if pay.lastReq.OrderNumber != result.Number {
		t.Fatalf("provider got number %q, result has %q", pay.lastReq.OrderNumber, result.Number)
	}
	if pay.lastReq.Cardholder.Email != "alice@example.com" {
		t.Fatalf("cardholder not mapped from contact: %+v", pay.lastReq.Cardholder)
	}

	if len(bus.subjects) != 1 || bus.subjects[0] != events.OrderCreated {
		t.Fatalf("expected one order.created event, got %v", bus.subjects)
	}
	if len(mail.receipts) != 1 || mail.receipts[0] != result.Number {
		t.Fatalf("expected one receipt for %s, got %v", result.Number, mail.receipts)
	}
}

func TestSubmit_Declined_StillWritesOrder(t *testing.T) {
	repo := &mockOrdersRepo{}
	pay := &mockPayments{result: declinedResult()}
	bus := &mockBus{}
	mail := &mockMailer{}

	result, err := newService(repo, pay, bus, mail).Submit(context.Background(), 7, validOrderRequest())
	if err != nil {
		t.Fatalf("a declined charge is not an error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected declined order to be written, got %d orders", len(repo.created))
	}
	if repo.created[0].Status != domain.OrderDeclined {
		t.Fatalf("expected declined status, got %d", repo.created[0].Status)
	}

	// The raw decline payload goes back to the client.
	var echoed map[string]interface{}
	json.Unmarshal(result.Payment, &echoed)
	if echoed["msg"] != "Card declined" {
		t.Fatalf("expected raw provider payload in result, got %s", result.Payment)
	}

	if len(bus.subjects) != 1 || bus.subjects[0] != events.OrderDeclined {
		t.Fatalf("expected one order.declined event, got %v", bus.subjects)
	}
	if len(mail.receipts) != 0 {
		t.Fatal("no receipt for a declined charge")
	}
}

func TestSubmit_ProviderUnreachable_NoOrderWritten(t *testing.T) {
	repo := &mockOrdersRepo{}
	pay := &mockPayments{err: errors.New("connection refused")}

	_, err := newService(repo, pay, &mockBus{}, &mockMailer{}).Submit(context.Background(), 7, validOrderRequest())
	if err == nil {
		t.Fatal("expected error when provider is unreachable")
	}
	if domain.KindOf(err) != domain.KindUpstream {
		t.Fatalf("expected upstream kind, got %s", domain.KindOf(err))
	}
	if len(repo.created) != 0 {
		t.Fatal("no order may be written when the charge outcome is unknown")
	}
}

func TestSubmit_SequentialNumbers(t *testing.T) {
	repo := &mockOrdersRepo{}
	svc := newService(repo, &mockPayments{result: acceptedResult()}, &mockBus{}, &mockMailer{})

	r1, err := svc.Submit(context.Background(), 1, validOrderRequest())
	if err != nil {
		t.Fatal(err)
	}
	r2, err := svc.Submit(context.Background(), 2, validOrderRequest())
	if err != nil {
		t.Fatal(err)
	}

	if r1.Number == r2.Number {
		t.Fatalf("two submissions shared number %s", r1.Number)
	}
	prefix := time.Now().Format("20060102")
	if r1.Number != prefix+"-0001" || r2.Number != prefix+"-0002" {
		t.Fatalf("expected zero-padded sequence, got %s then %s", r1.Number, r2.Number)
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.OrderRequest)
	}{
		{"missing prime", func(r *domain.OrderRequest) { r.Prime = "" }},
		{"zero price", func(r *domain.OrderRequest) { r.Order.Price = 0 }},
		{"missing attraction", func(r *domain.OrderRequest) { r.Order.Trip.Attraction.ID = 0 }},
		{"bad date", func(r *domain.OrderRequest) { r.Order.Trip.Date = "15-03-2025" }},
		{"missing time", func(r *domain.OrderRequest) { r.Order.Trip.Time = "" }},
		{"missing contact name", func(r *domain.OrderRequest) { r.Order.Contact.Name = "" }},
		{"missing phone", func(r *domain.OrderRequest) { r.Order.Contact.Phone = "" }},
		{"bad email", func(r *domain.OrderRequest) { r.Order.Contact.Email = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockOrdersRepo{}
			pay := &mockPayments{result: acceptedResult()}
			req := validOrderRequest()
			tt.mutate(req)

			_, err := newService(repo, pay, &mockBus{}, &mockMailer{}).Submit(context.Background(), 7, req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation kind, got %s", domain.KindOf(err))
			}
			if pay.lastReq != nil {
				t.Fatal("provider must not be called for invalid input")
			}
		})
	}
}

func TestFetch_Ownership(t *testing.T) {
	repo := &mockOrdersRepo{
		fetched: map[string]*domain.OrderDetail{
			"20250301-0001": {Number: "20250301-0001", Price: 2500, Status: domain.OrderPaid},
		},
	}
	svc := newService(repo, &mockPayments{}, &mockBus{}, &mockMailer{})

	detail, err := svc.Fetch(context.Background(), "20250301-0001", 7)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if detail == nil || detail.Number != "20250301-0001" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	missing, err := svc.Fetch(context.Background(), "20250301-9999", 7)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown order number")
	}
}
