package checkoutapi

import (
	"context"
	"net/url"
)

type Redirect struct {
	TransactionUID string
	RedirectURL    string
}

type CallbackResult struct {
	TransactionUID string
	Success        bool
	StatusDetails  string
	// Amount is 0 when the gateway does not report it
	Amount int64
}

//go:generate mockgen -source=gateway.go -package checkoutapi -destination gateway_mock.go Gateway
type Gateway interface {
	Method() PaymentMethod
	// CreatePayment returns an empty redirect url when the gateway refused the payment.
	CreatePayment(c context.Context, summary OrderSummary) (Redirect, error)
	VerifyCallback(values url.Values) error
	// ParseCallback verifies the callback before interpreting any of its fields.
	ParseCallback(values url.Values) (CallbackResult, error)
}
