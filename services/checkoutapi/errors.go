package checkoutapi

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	ErrorKindEmptyCart                ErrorKind = "EmptyCart"
	ErrorKindUnauthenticated          ErrorKind = "Unauthenticated"
	ErrorKindCustomerNotFound         ErrorKind = "CustomerNotFound"
	ErrorKindUnsupportedPaymentMethod ErrorKind = "UnsupportedPaymentMethod"
	ErrorKindGatewayUnavailable       ErrorKind = "GatewayUnavailable"
	ErrorKindOrderFailed              ErrorKind = "OrderFailed"
	ErrorKindSignatureInvalid         ErrorKind = "SignatureInvalid"
	ErrorKindSystemError              ErrorKind = "SystemError"
)

var httpStatusPerKind = map[ErrorKind]int{
	ErrorKindEmptyCart:                http.StatusBadRequest,
	ErrorKindUnauthenticated:          http.StatusUnauthorized,
	ErrorKindCustomerNotFound:         http.StatusNotFound,
	ErrorKindUnsupportedPaymentMethod: http.StatusBadRequest,
	ErrorKindGatewayUnavailable:       http.StatusBadGateway,
	ErrorKindOrderFailed:              http.StatusUnprocessableEntity,
	ErrorKindSignatureInvalid:         http.StatusBadRequest,
	ErrorKindSystemError:              http.StatusInternalServerError,
}

// Error is a checkout failure the user can be told about.
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) error {
	return &Error{Kind: kind, Err: err}
}

func NewErrorf(kind ErrorKind, format string, args ...any) error {
	return NewError(kind, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) GetHTTPErrorCode() int {
	status, found := httpStatusPerKind[e.Kind]
	if !found {
		return http.StatusInternalServerError
	}
	return status
}

// KindOf returns SystemError for anything that is not a checkout error.
func KindOf(err error) ErrorKind {
	var checkoutErr *Error
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Kind
	}
	return ErrorKindSystemError
}

func IsKind(err error, kind ErrorKind) bool {
	var checkoutErr *Error
	return errors.As(err, &checkoutErr) && checkoutErr.Kind == kind
}
