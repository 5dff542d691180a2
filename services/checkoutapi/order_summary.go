package checkoutapi

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/MarcGrol/cartcheckout/services/catalog"
)

const Currency = "VND"

type OrderSummary struct {
	PayerName            string
	Amount               int64
	TotalAmountFormatted string
	Description          string
}

// NewOrderSummary falls back to the customer's full name when no payer name was given.
func NewOrderSummary(customer catalog.Customer, payerName string, description string, amount int64) OrderSummary {
	payerName = strings.TrimSpace(payerName)
	if payerName == "" {
		payerName = customer.FullName()
	}
	return OrderSummary{
		PayerName:            payerName,
		Amount:               amount,
		TotalAmountFormatted: FormatAmount(amount),
		Description:          description,
	}
}

// FormatAmount renders whole currency units with thousands separators: 200000 -> "200,000".
func FormatAmount(amount int64) string {
	return humanize.Comma(amount)
}
