package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/diagnosis/taipei-trip/pkg/config"
)

// TapPay calls the pay-by-prime endpoint. The partner key doubles as the
// API key header per the provider's contract.
type TapPay struct {
	client     *http.Client
	endpoint   string
	partnerKey string
	merchantID string
}

func NewTapPay(cfg config.TapPayConfig) *TapPay {
	return &TapPay{
		client:     &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		partnerKey: cfg.PartnerKey,
		merchantID: cfg.MerchantID,
	}
}

type primePayload struct {
	Prime       string     `json:"prime"`
	PartnerKey  string     `json:"partner_key"`
	MerchantID  string     `json:"merchant_id"`
	Amount      int        `json:"amount"`
	OrderNumber string     `json:"order_number"`
	Details     string     `json:"details"`
	Cardholder  Cardholder `json:"cardholder"`
	Remember    bool       `json:"remember"`
}

func (t *TapPay) PayByPrime(ctx context.Context, req *PrimeRequest) (*Result, error) {
	payload := primePayload{
		Prime:       req.Prime,
		PartnerKey:  t.partnerKey,
		MerchantID:  t.merchantID,
		Amount:      req.Amount,
		OrderNumber: req.OrderNumber,
		Details:     req.Details,
		Cardholder:  req.Cardholder,
		Remember:    true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode pay-by-prime payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build pay-by-prime request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.partnerKey)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned HTTP %d: %s", resp.StatusCode, raw)
	}

	var decoded struct {
		Status int    `json:"status"`
		Msg    string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("malformed provider response: %w", err)
	}

	return &Result{Status: decoded.Status, Message: decoded.Msg, Raw: raw}, nil
}

var _ Client = (*TapPay)(nil)
