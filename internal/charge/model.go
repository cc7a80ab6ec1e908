package charge

import "time"

type Status string

const (
	StatusUninitialized Status = "UNINITIALIZED"
	StatusAuthorized    Status = "AUTHORIZED"
	StatusCaptured      Status = "CAPTURED"
	StatusRefunded      Status = "REFUNDED"
	StatusVoided        Status = "VOIDED"
)

// Payment is the per-order payment context the lifecycle operates on. One
// Payment per order; the surrounding workflow serializes operations per order.
type Payment struct {
	ID       int64
	OrderRef string
	Currency string

	// ChargeID is assigned by the gateway on the first successful authorize
	// and is never overwritten afterwards, even by refund or void. It stays
	// behind as the audit trail.
	ChargeID string

	Status      Status
	AmountCents int64

	// TransactionID mirrors ChargeID for the order system's transaction
	// bookkeeping; TransactionClosed stays false after authorize so capture
	// and void remain possible downstream.
	TransactionID     string
	TransactionClosed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Payment) HasChargeID() bool {
	return p.ChargeID != ""
}

// setChargeID commits the gateway identifier. First write wins; a later
// operation can never replace it.
func (p *Payment) setChargeID(id string) {
	if p.ChargeID == "" {
		p.ChargeID = id
	}
}
