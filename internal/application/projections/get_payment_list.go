package projections

import (
	"context"

	"kiba/internal/application/resolver"
)

// GetPaymentListDeps holds dependencies for the payment list projection.
type GetPaymentListDeps struct {
	PaymentStore DashboardPaymentStore
	Resolver     ListResolver
}

// QueryGetPaymentList returns every payment, newest first (store ordering),
// each with its member attached. A payment whose member was deleted keeps
// its row and renders the member as absent.
// POST: An empty ledger yields an empty slice, not an error
func QueryGetPaymentList(ctx context.Context, deps GetPaymentListDeps) ([]resolver.ResolvedPayment, error) {
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]resolver.ResolvedPayment, 0, len(payments))
	for _, p := range payments {
		rp, err := deps.Resolver.ResolvePayment(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, nil
}
