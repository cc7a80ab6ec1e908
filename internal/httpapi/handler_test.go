package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flexipay-be/internal/charge"
	"flexipay-be/internal/checkout"
	"flexipay-be/internal/config"
	"flexipay-be/internal/eligibility"
	"flexipay-be/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	authorizeErr error
	captureErr   error
	refundErr    error
	voidErr      error

	lastPayment *charge.Payment
}

func (s *stubService) Authorize(_ context.Context, p *charge.Payment, amount float64, _ string) error {
	s.lastPayment = p
	if s.authorizeErr != nil {
		return s.authorizeErr
	}
	p.ChargeID = "ch_1"
	p.Status = charge.StatusAuthorized
	p.AmountCents = money.FormatCents(amount)
	p.TransactionClosed = true
	return nil
}

func (s *stubService) Capture(_ context.Context, p *charge.Payment, _ float64) error {
	if s.captureErr != nil {
		return s.captureErr
	}
	p.Status = charge.StatusCaptured
	return nil
}

func (s *stubService) Refund(_ context.Context, p *charge.Payment, _ float64) error {
	if s.refundErr != nil {
		return s.refundErr
	}
	p.Status = charge.StatusRefunded
	return nil
}

func (s *stubService) Void(_ context.Context, p *charge.Payment) error {
	if s.voidErr != nil {
		return s.voidErr
	}
	p.Status = charge.StatusVoided
	return nil
}

type stubRepo struct {
	payment *charge.Payment
	getErr  error
}

func (s *stubRepo) SaveCharge(_ context.Context, _ *charge.Payment) error { return nil }

func (s *stubRepo) GetChargeByOrder(_ context.Context, _ string) (*charge.Payment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	cp := *s.payment
	return &cp, nil
}

func (s *stubRepo) UpdateChargeStatus(_ context.Context, _ string, _ charge.Status) error {
	return nil
}

func newTestMux(svc charge.Service, repo charge.Repository) *http.ServeMux {
	return newCompatMux(charge.HostCurrent, svc, repo)
}

func newCompatMux(capability charge.HostCapability, svc charge.Service, repo charge.Repository) *http.ServeMux {
	checker := eligibility.NewChecker([]string{"Alabama"}, money.NewCurrencies("CAD"))
	builder := checkout.NewBuilder(&config.Config{
		FinloopAPIKey:       "pk_test",
		FinancialProductKey: "fp_test",
		MerchantConfirmURL:  "https://shop.example/confirm",
		MerchantCancelURL:   "https://shop.example/cancel",
		MerchantDeclinedURL: "https://shop.example/declined",
	})
	h := NewHandler(svc, charge.NewAuthorizer(capability, svc), repo, checker, builder, "USD")
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func authorizedPayment() *charge.Payment {
	return &charge.Payment{
		OrderRef:    "ord-1",
		Currency:    "USD",
		ChargeID:    "ch_1",
		Status:      charge.StatusAuthorized,
		AmountCents: 4999,
	}
}

func TestHandler_Authorize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		w := postJSON(t, mux, "/charges/authorize", authorizeRequest{
			OrderRef:      "ord-1",
			Amount:        49.99,
			CheckoutToken: "tok_1",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp chargeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ch_1", resp.ChargeID)
		assert.Equal(t, "AUTHORIZED", resp.Status)
		assert.Equal(t, int64(4999), resp.AmountCents)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		req := httptest.NewRequest("POST", "/charges/authorize", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnacceptedCurrency", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		w := postJSON(t, mux, "/charges/authorize", authorizeRequest{
			OrderRef: "ord-1",
			Amount:   49.99,
			Currency: "EUR",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		mux := newTestMux(&stubService{authorizeErr: money.ErrInvalidAmount}, &stubRepo{})

		w := postJSON(t, mux, "/charges/authorize", authorizeRequest{OrderRef: "ord-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("LegacyHostReopensTransaction", func(t *testing.T) {
		svc := &stubService{}
		mux := newCompatMux(charge.HostLegacy, svc, &stubRepo{})

		w := postJSON(t, mux, "/charges/authorize", authorizeRequest{
			OrderRef:      "ord-1",
			Amount:        49.99,
			CheckoutToken: "tok_1",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		// The service closed the transaction; the legacy strategy must have
		// reopened it before the response was written.
		require.NotNil(t, svc.lastPayment)
		assert.False(t, svc.lastPayment.TransactionClosed)
	})

	t.Run("AmountMismatchIsBadGateway", func(t *testing.T) {
		mux := newTestMux(&stubService{
			authorizeErr: &money.AmountMismatchError{Expected: 4999, Got: 5000},
		}, &stubRepo{})

		w := postJSON(t, mux, "/charges/authorize", authorizeRequest{
			OrderRef: "ord-1",
			Amount:   49.99,
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHandler_BuildCheckout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		w := postJSON(t, mux, "/checkout", checkout.Order{
			IncrementID:   "100000001",
			CustomerEmail: "buyer@example.com",
			Billing:       checkout.Address{FullName: "Jane Buyer", CountryCode: "USA"},
			Items:         []checkout.Item{{SKU: "sku-1", Qty: 1, UnitPrice: 49.99}},
			TaxAmount:     4.12,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "100000001", payload["checkout_id"])
		assert.Equal(t, "USD", payload["currency"])
		assert.Equal(t, float64(412), payload["tax_amount"])

		merchant, ok := payload["merchant"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "pk_test", merchant["public_api_key"])
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		req := httptest.NewRequest("POST", "/checkout", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnacceptedCurrency", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{})

		w := postJSON(t, mux, "/checkout", checkout.Order{
			IncrementID:  "100000002",
			CurrencyCode: "EUR",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHandler_Capture(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{payment: authorizedPayment()})

		w := postJSON(t, mux, "/charges/capture", amountRequest{OrderRef: "ord-1", Amount: 49.99})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp chargeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "CAPTURED", resp.Status)
	})

	t.Run("ChargeNotFound", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{getErr: sql.ErrNoRows})

		w := postJSON(t, mux, "/charges/capture", amountRequest{OrderRef: "ord-x", Amount: 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ChargeIDMissing", func(t *testing.T) {
		mux := newTestMux(&stubService{captureErr: charge.ErrChargeIDMissing},
			&stubRepo{payment: &charge.Payment{OrderRef: "ord-1"}})

		w := postJSON(t, mux, "/charges/capture", amountRequest{OrderRef: "ord-1", Amount: 1})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Refund(t *testing.T) {
	t.Run("GatewayRejected", func(t *testing.T) {
		mux := newTestMux(&stubService{
			refundErr: &charge.GatewayRejectedError{StatusCode: 402, Message: "insufficient balance"},
		}, &stubRepo{payment: authorizedPayment()})

		w := postJSON(t, mux, "/charges/refund", amountRequest{OrderRef: "ord-1", Amount: 10})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient balance")
	})

	t.Run("Success", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{payment: authorizedPayment()})

		w := postJSON(t, mux, "/charges/refund", amountRequest{OrderRef: "ord-1", Amount: 49.99})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_Void(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := newTestMux(&stubService{}, &stubRepo{payment: authorizedPayment()})

		w := postJSON(t, mux, "/charges/void", voidRequest{OrderRef: "ord-1"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotEligible", func(t *testing.T) {
		mux := newTestMux(&stubService{voidErr: charge.ErrVoidNotAvailable},
			&stubRepo{payment: authorizedPayment()})

		w := postJSON(t, mux, "/charges/void", voidRequest{OrderRef: "ord-1"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_GetCharge(t *testing.T) {
	mux := newTestMux(&stubService{}, &stubRepo{payment: authorizedPayment()})

	req := httptest.NewRequest("GET", "/charges/ord-1", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp chargeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ch_1", resp.ChargeID)
}

func TestHandler_Availability(t *testing.T) {
	mux := newTestMux(&stubService{}, &stubRepo{})

	t.Run("Available", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/availability?region=Oregon&currency=USD", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":true}`, w.Body.String())
	})

	t.Run("DeniedRegion", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/availability?region=Alabama", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.JSONEq(t, `{"available":false}`, w.Body.String())
	})
}
