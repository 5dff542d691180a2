package checkoutapi

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodMomo  PaymentMethod = "momo"
	PaymentMethodVnpay PaymentMethod = "vnpay"
)

var paymentMethods = []PaymentMethod{PaymentMethodCOD, PaymentMethodMomo, PaymentMethodVnpay}

// ParsePaymentMethod accepts the method names case-insensitively.
func ParsePaymentMethod(name string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, method := range paymentMethods {
		if string(method) == normalized {
			return method, nil
		}
	}
	return "", fmt.Errorf("unsupported payment method '%s'", name)
}

func (m PaymentMethod) IsHosted() bool {
	return m == PaymentMethodMomo || m == PaymentMethodVnpay
}
