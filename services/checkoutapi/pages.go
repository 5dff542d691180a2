package checkoutapi

import (
	"errors"
	"net/url"
)

const (
	CartPage   = "/cart"
	SigninPage = "/customer/signin"

	// CustomerUIDHeader is set by the authenticating proxy in front of this service.
	CustomerUIDHeader = "X-Customer-Uid"
)

// ErrAmountMismatch marks a callback that reports another amount than was asked for.
var ErrAmountMismatch = errors.New("amount mismatch")

// CartPageURL is where the browser lands after a checkout attempt, successful or not.
func CartPageURL(status string, message string, transactionUID string) string {
	query := url.Values{}
	query.Set("status", status)
	if message != "" {
		query.Set("message", message)
	}
	if transactionUID != "" {
		query.Set("transactionUID", transactionUID)
	}
	return CartPage + "?" + query.Encode()
}
