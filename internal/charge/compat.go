package charge

import "context"

// HostCapability selects how authorization is invoked for the surrounding
// order system. Older host versions reset the payment's transaction flag
// after the authorize hook returns; the legacy strategy compensates. Chosen
// once at wiring time from configuration, not detected at runtime.
type HostCapability int

const (
	HostCurrent HostCapability = iota
	HostLegacy
)

type Authorizer interface {
	AuthorizeOrder(ctx context.Context, p *Payment, totalDue float64, checkoutToken string) error
}

func NewAuthorizer(capability HostCapability, svc Service) Authorizer {
	if capability == HostLegacy {
		return &legacyAuthorizer{svc: svc}
	}
	return &currentAuthorizer{svc: svc}
}

type currentAuthorizer struct {
	svc Service
}

func (a *currentAuthorizer) AuthorizeOrder(ctx context.Context, p *Payment, totalDue float64, checkoutToken string) error {
	return a.svc.Authorize(ctx, p, totalDue, checkoutToken)
}

type legacyAuthorizer struct {
	svc Service
}

func (a *legacyAuthorizer) AuthorizeOrder(ctx context.Context, p *Payment, totalDue float64, checkoutToken string) error {
	if err := a.svc.Authorize(ctx, p, totalDue, checkoutToken); err != nil {
		return err
	}
	// Legacy hosts close the transaction on hook return; reopen it so
	// capture and void stay possible.
	p.TransactionClosed = false
	return nil
}
