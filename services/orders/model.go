package orders

import (
	"time"

	"github.com/MarcGrol/cartcheckout/services/cart"
)

type Order struct {
	UID           string
	CustomerUID   string
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	PaymentMethod string
	Amount        int64
	Currency      string
	Items         []cart.CartItem `datastore:",noindex"`
	CreatedAt     time.Time
}

func (o Order) Quantity() int {
	quantity := 0
	for _, item := range o.Items {
		quantity += item.Quantity
	}
	return quantity
}
