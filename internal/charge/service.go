package charge

import (
	"context"
	"fmt"

	"flexipay-be/internal/logger"
	"flexipay-be/internal/money"

	"go.uber.org/zap"
)

const checkoutTokenField = "checkout_token"

// VoidEligibility is the order-level check delegated to the host order
// system. Nil means always eligible.
type VoidEligibility func(p *Payment) bool

type Service interface {
	Authorize(ctx context.Context, p *Payment, amount float64, checkoutToken string) error
	Capture(ctx context.Context, p *Payment, amount float64) error
	Refund(ctx context.Context, p *Payment, amount float64) error
	Void(ctx context.Context, p *Payment) error
}

type service struct {
	gateway Gateway
	repo    Repository
	canVoid VoidEligibility
}

func NewService(gateway Gateway, repo Repository, canVoid VoidEligibility) Service {
	return &service{
		gateway: gateway,
		repo:    repo,
		canVoid: canVoid,
	}
}

// Authorize exchanges the checkout token for a charge. The gateway-assigned
// id and the echoed amount are both validated before anything is committed
// locally, so a mismatch can never leave the order looking paid.
func (s *service) Authorize(ctx context.Context, p *Payment, amount float64, checkoutToken string) error {
	cents, err := money.ToMinorUnits(amount)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("order_ref", p.OrderRef),
		zap.Int64("amount_cents", cents),
	)
	log.Info("authorizing charge")

	resp, err := s.gateway.Send(ctx, Request{
		Method: MethodCreate,
		Path:   "",
		Body:   map[string]interface{}{checkoutTokenField: checkoutToken},
	})
	if err != nil {
		return err
	}

	id, ok := resp.ChargeID()
	if !ok {
		return ErrChargeIDNotReturned
	}
	if err := money.AssertAmountMatches(cents, resp); err != nil {
		log.Error("authorize amount echo mismatch", zap.Error(err))
		return err
	}

	p.setChargeID(id)
	p.Status = StatusAuthorized
	p.AmountCents = cents
	p.TransactionID = p.ChargeID
	p.TransactionClosed = false

	if err := s.repo.SaveCharge(ctx, p); err != nil {
		return fmt.Errorf("persist charge %s: %w", p.ChargeID, err)
	}

	log.Info("charge authorized", zap.String("charge_id", p.ChargeID))
	return nil
}

// Capture settles the previously authorized amount. The gateway captures the
// amount it authorized, so the call carries no body; the echo is still
// checked against what the caller expects to collect.
func (s *service) Capture(ctx context.Context, p *Payment, amount float64) error {
	cents, err := money.ToMinorUnits(amount)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if !p.HasChargeID() {
		return ErrChargeIDMissing
	}

	log := logger.FromCtx(ctx).With(
		zap.String("charge_id", p.ChargeID),
		zap.Int64("amount_cents", cents),
	)
	log.Info("capturing charge")

	resp, err := s.gateway.Send(ctx, Request{
		Method: MethodCreate,
		Path:   p.ChargeID + "/capture",
	})
	if err != nil {
		return err
	}
	if err := money.AssertAmountMatches(cents, resp); err != nil {
		log.Error("capture amount echo mismatch", zap.Error(err))
		return err
	}

	p.Status = StatusCaptured
	if err := s.repo.UpdateChargeStatus(ctx, p.OrderRef, StatusCaptured); err != nil {
		return fmt.Errorf("persist capture for %s: %w", p.ChargeID, err)
	}

	log.Info("charge captured")
	return nil
}

// Refund returns the full charged amount. Partial refunds are not modeled.
func (s *service) Refund(ctx context.Context, p *Payment, amount float64) error {
	cents, err := money.ToMinorUnits(amount)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	if !p.HasChargeID() {
		return ErrChargeIDMissing
	}

	log := logger.FromCtx(ctx).With(
		zap.String("charge_id", p.ChargeID),
		zap.Int64("amount_cents", cents),
	)
	log.Info("refunding charge")

	resp, err := s.gateway.Send(ctx, Request{
		Method: MethodCreate,
		Path:   p.ChargeID + "/refund",
		Body:   map[string]interface{}{"amount": cents},
	})
	if err != nil {
		return err
	}
	if err := money.AssertAmountMatches(cents, resp); err != nil {
		log.Error("refund amount echo mismatch", zap.Error(err))
		return err
	}

	p.Status = StatusRefunded
	if err := s.repo.UpdateChargeStatus(ctx, p.OrderRef, StatusRefunded); err != nil {
		return fmt.Errorf("persist refund for %s: %w", p.ChargeID, err)
	}

	log.Info("charge refunded")
	return nil
}

// Void cancels an authorized, uncaptured charge. The gateway's void response
// carries no monetary echo, so there is no amount check here.
func (s *service) Void(ctx context.Context, p *Payment) error {
	if s.canVoid != nil && !s.canVoid(p) {
		return ErrVoidNotAvailable
	}
	if !p.HasChargeID() {
		return ErrChargeIDMissing
	}

	log := logger.FromCtx(ctx).With(zap.String("charge_id", p.ChargeID))
	log.Info("voiding charge")

	if _, err := s.gateway.Send(ctx, Request{
		Method: MethodCreate,
		Path:   p.ChargeID + "/void",
	}); err != nil {
		return err
	}

	p.Status = StatusVoided
	if err := s.repo.UpdateChargeStatus(ctx, p.OrderRef, StatusVoided); err != nil {
		return fmt.Errorf("persist void for %s: %w", p.ChargeID, err)
	}

	log.Info("charge voided")
	return nil
}
