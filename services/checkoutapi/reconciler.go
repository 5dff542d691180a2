package checkoutapi

import (
	"context"
	"net/url"
)

// Reconciler applies verified gateway notifications to pending payments.
//
//go:generate mockgen -source=reconciler.go -package checkoutapi -destination reconciler_mock.go Reconciler
type Reconciler interface {
	// ReconcileCallback returns the payment and whether this callback changed its status.
	ReconcileCallback(c context.Context, gateway Gateway, values url.Values) (PendingPayment, bool, error)
	RecordPaymentResult(c context.Context, gateway Gateway, result PaymentResult) error
}
