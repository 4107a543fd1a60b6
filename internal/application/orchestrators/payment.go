package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/application/resolver"
	"kiba/internal/domain/payment"
)

// PaymentStoreForOrchestrator defines the store interface needed by
// payment orchestrators.
type PaymentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// PaymentResolver attaches related records to a payment.
type PaymentResolver interface {
	ResolvePayment(ctx context.Context, p payment.Payment) (resolver.ResolvedPayment, error)
}

// RecordPaymentInput carries input for the record payment orchestrator.
type RecordPaymentInput struct {
	MemberID   string
	Amount     float64
	Month      string
	Year       int
	Method     string
	Status     string
	ReceiptURL string
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	PaymentStore PaymentStoreForOrchestrator
	Resolver     PaymentResolver
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRecordPayment creates a monthly dues record for a member.
// PRE: MemberID and Month are non-empty, Amount >= 0
// POST: Payment persisted; if created already paid, PaidAt is stamped with
// the creation time; the returned payment carries its resolved member
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (resolver.ResolvedPayment, error) {
	now := deps.Now()

	p := payment.Payment{
		ID:         deps.GenerateID(),
		MemberID:   input.MemberID,
		Amount:     input.Amount,
		Month:      input.Month,
		Year:       input.Year,
		Method:     input.Method,
		Status:     payment.StatusPending,
		ReceiptURL: input.ReceiptURL,
		CreatedAt:  now,
	}

	status := input.Status
	if status == "" {
		status = payment.StatusPending
	}
	if err := p.ApplyStatus(status, now); err != nil {
		return resolver.ResolvedPayment{}, err
	}

	if err := p.Validate(); err != nil {
		return resolver.ResolvedPayment{}, err
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return resolver.ResolvedPayment{}, err
	}

	slog.Info("payment_event", "event", "payment_recorded",
		"payment_id", p.ID, "member_id", p.MemberID, "status", p.Status)
	return deps.Resolver.ResolvePayment(ctx, p)
}

// UpdatePaymentStatusInput carries input for the status update orchestrator.
type UpdatePaymentStatusInput struct {
	PaymentID string
	Status    string
}

// UpdatePaymentStatusDeps holds dependencies for UpdatePaymentStatus.
type UpdatePaymentStatusDeps struct {
	PaymentStore PaymentStoreForOrchestrator
	Resolver     PaymentResolver
	Now          func() time.Time
}

// ExecuteUpdatePaymentStatus moves a payment to a new status.
// PRE: The payment exists; Status is in the closed set
// POST: Moving to paid stamps PaidAt with the update time; moving away from
// paid leaves a previously stamped PaidAt untouched
func ExecuteUpdatePaymentStatus(ctx context.Context, input UpdatePaymentStatusInput, deps UpdatePaymentStatusDeps) (resolver.ResolvedPayment, error) {
	p, err := deps.PaymentStore.GetByID(ctx, input.PaymentID)
	if err != nil {
		return resolver.ResolvedPayment{}, err
	}

	if err := p.ApplyStatus(input.Status, deps.Now()); err != nil {
		return resolver.ResolvedPayment{}, err
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return resolver.ResolvedPayment{}, err
	}

	slog.Info("payment_event", "event", "payment_status_updated",
		"payment_id", p.ID, "status", p.Status)
	return deps.Resolver.ResolvePayment(ctx, p)
}
