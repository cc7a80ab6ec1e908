package charge

import (
	"context"
	"database/sql"
)

type Repository interface {
	SaveCharge(ctx context.Context, p *Payment) error
	GetChargeByOrder(ctx context.Context, orderRef string) (*Payment, error)
	UpdateChargeStatus(ctx context.Context, orderRef string, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveCharge(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO charges (order_ref,
		charge_id,
		status,
		amount_cents,
		currency,
		transaction_id,
		transaction_closed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		p.OrderRef, p.ChargeID, p.Status, p.AmountCents, p.Currency,
		p.TransactionID, p.TransactionClosed,
	)
	return err
}

func (r *repository) GetChargeByOrder(ctx context.Context, orderRef string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_ref, charge_id, status, amount_cents, currency,
		       transaction_id, transaction_closed, created_at, updated_at
		FROM charges WHERE order_ref = $1
	`, orderRef)

	var p Payment
	err := row.Scan(
		&p.ID, &p.OrderRef, &p.ChargeID, &p.Status, &p.AmountCents, &p.Currency,
		&p.TransactionID, &p.TransactionClosed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateChargeStatus(ctx context.Context, orderRef string, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE charges SET status = $1, updated_at = now() WHERE order_ref = $2
	`, status, orderRef)
	return err
}
