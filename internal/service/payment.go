package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dilsedaan-backend/internal/domain"

	"github.com/google/uuid"
)

// razorpayPaymentService charges saved payment instruments through the
// Razorpay recurring payments API. The engine only cares about
// success/failure plus a transaction id; everything else stays here.
type razorpayPaymentService struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpayPaymentService(keyID, keySecret, baseURL string) PaymentService {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &razorpayPaymentService{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type razorpayChargeRequest struct {
	// Amount is in paise per Razorpay convention.
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	CustomerRef    string `json:"customer_ref"`
	Method         string `json:"method"`
	IdempotencyKey string `json:"idempotency_key"`
}

type razorpayChargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  struct {
		Description string `json:"description"`
	} `json:"error"`
}

func (s *razorpayPaymentService) Charge(ctx context.Context, donorID int64, amount float64, paymentMethod string) (*ChargeResult, error) {
	payload, err := json.Marshal(razorpayChargeRequest{
		Amount:         int64(amount * 100),
		Currency:       "INR",
		CustomerRef:    fmt.Sprintf("donor-%d", donorID),
		Method:         paymentMethod,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay unreachable: %v", domain.ErrExternalFailure, err)
	}
	defer resp.Body.Close()

	var body razorpayChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed razorpay response: %v", domain.ErrExternalFailure, err)
	}

	if resp.StatusCode >= 400 || body.Status == "failed" {
		return &ChargeResult{Success: false, Error: body.Error.Description}, nil
	}
	return &ChargeResult{Success: true, TransactionID: body.ID}, nil
}
