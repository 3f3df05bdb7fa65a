package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diagnosis/taipei-trip/internal/platform/payment"
	"github.com/diagnosis/taipei-trip/pkg/config"
)

func newClient(endpoint string) *payment.TapPay {
	return payment.NewTapPay(config.TapPayConfig{
		Endpoint:   endpoint,
		PartnerKey: "partner-key-123",
		MerchantID: "merchant-456",
		Timeout:    2 * time.Second,
	})
}

func primeReq() *payment.PrimeRequest {
	return &payment.PrimeRequest{
		Prime:       "prime-token",
		Amount:      2500,
		OrderNumber: "20250301-0001",
		Details:     "Taipei day trip: Elephant Mountain",
		Cardholder: payment.Cardholder{
			PhoneNumber: "+886912345678",
			Name:        "Alice",
			Email:       "alice@example.com",
		},
	}
}

func TestTapPay_PayByPrime_Accepted(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAPIKey, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":0,"msg":"Success","rec_trade_id":"D20250301abcd"}`))
	}))
	defer server.Close()

	client := newClient(server.URL)
	res, err := client.PayByPrime(context.Background(), primeReq())
	if err != nil {
		t.Fatalf("PayByPrime failed: %v", err)
	}

	if !res.Accepted() {
		t.Fatalf("expected accepted charge, got status %d", res.Status)
	}
	if res.Message != "Success" {
		t.Fatalf("expected msg 'Success', got %q", res.Message)
	}

	if gotAPIKey != "partner-key-123" {
		t.Fatalf("expected partner key in x-api-key header, got %q", gotAPIKey)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}

	// The provider payload carries the credentials and the order context.
	for key, want := range map[string]interface{}{
		"prime":        "prime-token",
		"partner_key":  "partner-key-123",
		"merchant_id":  "merchant-456",
		"amount":       float64(2500),
		"order_number": "20250301-0001",
		"remember":     true,
	} {
		if gotBody[key] != want {
			t.Errorf("payload %s = %v, want %v", key, gotBody[key], want)
		}
	}
	cardholder, ok := gotBody["cardholder"].(map[string]interface{})
	if !ok || cardholder["phone_number"] != "+886912345678" {
		t.Fatalf("cardholder missing or wrong: %v", gotBody["cardholder"])
	}

	// The raw body is preserved verbatim for the API response.
	var echoed map[string]interface{}
	if err := json.Unmarshal(res.Raw, &echoed); err != nil {
		t.Fatalf("raw response not valid json: %v", err)
	}
	if echoed["rec_trade_id"] != "D20250301abcd" {
		t.Fatal("raw provider fields were not preserved")
	}
}

func TestTapPay_PayByPrime_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":10003,"msg":"Card declined"}`))
	}))
	defer server.Close()

	res, err := newClient(server.URL).PayByPrime(context.Background(), primeReq())
	if err != nil {
		t.Fatalf("a decline is not a transport error: %v", err)
	}
	if res.Accepted() {
		t.Fatal("expected declined charge")
	}
	if res.Status != 10003 || res.Message != "Card declined" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestTapPay_PayByPrime_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newClient(server.URL).PayByPrime(context.Background(), primeReq()); err == nil {
		t.Fatal("expected error for non-2xx provider response")
	}
}

func TestTapPay_PayByPrime_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	if _, err := newClient(server.URL).PayByPrime(context.Background(), primeReq()); err == nil {
		t.Fatal("expected error when provider is unreachable")
	}
}

func TestTapPay_PayByPrime_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	if _, err := newClient(server.URL).PayByPrime(context.Background(), primeReq()); err == nil {
		t.Fatal("expected error for malformed provider response")
	}
}
