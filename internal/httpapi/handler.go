package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"flexipay-be/internal/charge"
	"flexipay-be/internal/checkout"
	"flexipay-be/internal/eligibility"
	"flexipay-be/internal/logger"
	"flexipay-be/internal/money"

	"go.uber.org/zap"
)

type Handler struct {
	svc      charge.Service
	auth     charge.Authorizer
	repo     charge.Repository
	checker  *eligibility.Checker
	builder  *checkout.Builder
	currency string
}

func NewHandler(svc charge.Service, auth charge.Authorizer, repo charge.Repository,
	checker *eligibility.Checker, builder *checkout.Builder, currency string) *Handler {
	return &Handler{
		svc:      svc,
		auth:     auth,
		repo:     repo,
		checker:  checker,
		builder:  builder,
		currency: currency,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.BuildCheckout)
	mux.HandleFunc("POST /charges/authorize", h.Authorize)
	mux.HandleFunc("POST /charges/capture", h.Capture)
	mux.HandleFunc("POST /charges/refund", h.Refund)
	mux.HandleFunc("POST /charges/void", h.Void)
	mux.HandleFunc("GET /charges/{orderRef}", h.GetCharge)
	mux.HandleFunc("GET /availability", h.Availability)
}

// BuildCheckout assembles the gateway checkout payload for an order snapshot.
// The storefront posts here before redirecting the customer; the token that
// comes back from the gateway session is what authorize later consumes.
func (h *Handler) BuildCheckout(w http.ResponseWriter, r *http.Request) {
	var order checkout.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil || order.IncrementID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if order.CurrencyCode == "" {
		order.CurrencyCode = h.currency
	}
	if !h.checker.CanUseForCurrency(order.CurrencyCode) {
		writeError(w, http.StatusUnprocessableEntity, "currency not accepted")
		return
	}

	writeJSON(w, http.StatusOK, h.builder.BuildPayload(order))
}

type authorizeRequest struct {
	OrderRef      string  `json:"order_ref"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CheckoutToken string  `json:"checkout_token"`
}

type amountRequest struct {
	OrderRef string  `json:"order_ref"`
	Amount   float64 `json:"amount"`
}

type voidRequest struct {
	OrderRef string `json:"order_ref"`
}

type chargeResponse struct {
	OrderRef    string `json:"order_ref"`
	ChargeID    string `json:"charge_id,omitempty"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderRef == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}
	if !h.checker.CanUseForCurrency(currency) {
		writeError(w, http.StatusUnprocessableEntity, "currency not accepted")
		return
	}

	ctx := logger.WithOrderRef(r.Context(), req.OrderRef)
	p := &charge.Payment{
		OrderRef: req.OrderRef,
		Currency: currency,
		Status:   charge.StatusUninitialized,
	}

	if err := h.auth.AuthorizeOrder(ctx, p, req.Amount, req.CheckoutToken); err != nil {
		h.writeChargeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	h.amountOperation(w, r, h.svc.Capture)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	h.amountOperation(w, r, h.svc.Refund)
}

// amountOperation is the shared capture/refund path: load the stored charge,
// run the lifecycle operation, report the updated record.
func (h *Handler) amountOperation(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, p *charge.Payment, amount float64) error) {

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderRef == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := logger.WithOrderRef(r.Context(), req.OrderRef)
	p, err := h.repo.GetChargeByOrder(ctx, req.OrderRef)
	if err != nil {
		h.writeChargeError(w, r, err)
		return
	}

	if err := op(ctx, p, req.Amount); err != nil {
		h.writeChargeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	var req voidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderRef == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := logger.WithOrderRef(r.Context(), req.OrderRef)
	p, err := h.repo.GetChargeByOrder(ctx, req.OrderRef)
	if err != nil {
		h.writeChargeError(w, r, err)
		return
	}

	if err := h.svc.Void(ctx, p); err != nil {
		h.writeChargeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) GetCharge(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("orderRef")
	p, err := h.repo.GetChargeByOrder(r.Context(), orderRef)
	if err != nil {
		h.writeChargeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.currency
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"available": h.checker.Available(region, currency),
	})
}

func toResponse(p *charge.Payment) chargeResponse {
	return chargeResponse{
		OrderRef:    p.OrderRef,
		ChargeID:    p.ChargeID,
		Status:      string(p.Status),
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
	}
}

// writeChargeError maps the error taxonomy onto HTTP statuses. Every failure
// is surfaced; nothing here retries.
func (h *Handler) writeChargeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromCtx(r.Context())

	var rejected *charge.GatewayRejectedError
	var mismatch *money.AmountMismatchError
	var malformed *charge.MalformedResponseError
	var transport *charge.TransportError

	switch {
	case errors.Is(err, money.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, charge.ErrChargeIDMissing),
		errors.Is(err, charge.ErrVoidNotAvailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "charge not found")
	case errors.As(err, &rejected):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &mismatch), errors.As(err, &malformed), errors.As(err, &transport),
		errors.Is(err, charge.ErrChargeIDNotReturned):
		log.Error("gateway integrity failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error("charge operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
