package checkout

import (
	"context"

	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/catalog"
)

//go:generate mockgen -source=api.go -package checkout -destination checkout_mock.go CartStore,OrderPlacer
type CartStore interface {
	GetCart(c context.Context, session cart.Session) (cart.Cart, error)
	ClearCart(c context.Context, session cart.Session) error
}

type OrderPlacer interface {
	// Place reports false when the order could not be accepted.
	Place(c context.Context, customer catalog.Customer, cart cart.Cart) (bool, error)
}

type OutcomeKind string

const (
	OutcomeOrderPlaced      OutcomeKind = "OrderPlaced"
	OutcomeRedirectRequired OutcomeKind = "RedirectRequired"
)

type Outcome struct {
	Kind           OutcomeKind
	RedirectURL    string
	TransactionUID string
	Amount         int64
}
