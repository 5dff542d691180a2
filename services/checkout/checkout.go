package checkout

import (
	"context"
	"fmt"

	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/catalog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
)

// Checkout turns the cart of the session into an order, either directly (cash on delivery)
// or via the payment page of a hosted gateway.
func (s *Service) Checkout(c context.Context, session cart.Session, customerUID string, request checkoutapi.CheckoutRequest) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Log(c, session.UID, mylog.SeverityError, "Panic during checkout: %v", r)
			outcome = Outcome{}
			err = checkoutapi.NewErrorf(checkoutapi.ErrorKindSystemError, "%v", r)
		}
	}()

	currentCart, err := s.carts.GetCart(c, session)
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindSystemError, err)
	}
	if currentCart.IsEmpty() {
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindEmptyCart, "cart of session %s is empty", session.UID)
	}

	if customerUID == "" {
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindUnauthenticated, "no customer signed in")
	}

	customer, found, err := s.customers.GetCustomer(c, customerUID)
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindSystemError, err)
	}
	if !found {
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindCustomerNotFound, "customer %s not found", customerUID)
	}

	method, err := checkoutapi.ParsePaymentMethod(request.PaymentMethod)
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindUnsupportedPaymentMethod, err)
	}

	total := currentCart.Total()
	declared, ok := request.DeclaredAmount()
	if ok && declared != total {
		s.logger.Log(c, session.UID, mylog.SeverityWarn, "Declared amount %d differs from cart total %d: using cart total", declared, total)
	}

	summary := checkoutapi.NewOrderSummary(customer, request.OrderName, request.OrderDescription, total)

	s.logger.Log(c, session.UID, mylog.SeverityInfo, "Checkout of %s %s by customer %s using %s", summary.TotalAmountFormatted, checkoutapi.Currency, customer.UID, method)

	switch method {
	case checkoutapi.PaymentMethodCOD:
		return s.placeOrder(c, session, customer, currentCart)
	case checkoutapi.PaymentMethodMomo, checkoutapi.PaymentMethodVnpay:
		gateway, found := s.gateways[method]
		if !found {
			return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindUnsupportedPaymentMethod, "no gateway configured for %s", method)
		}
		return s.startHostedPayment(c, session, gateway, customer, currentCart, summary)
	default:
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindUnsupportedPaymentMethod, "payment method %s", method)
	}
}

func (s *Service) placeOrder(c context.Context, session cart.Session, customer catalog.Customer, currentCart cart.Cart) (Outcome, error) {
	placed, err := s.orders.Place(c, customer, currentCart)
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindSystemError, err)
	}
	if !placed {
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindOrderFailed, "order of customer %s was not accepted", customer.UID)
	}

	s.clearCart(c, session)

	return Outcome{
		Kind:   OutcomeOrderPlaced,
		Amount: currentCart.Total(),
	}, nil
}

func (s *Service) startHostedPayment(c context.Context, session cart.Session, gateway checkoutapi.Gateway, customer catalog.Customer, currentCart cart.Cart, summary checkoutapi.OrderSummary) (Outcome, error) {
	redirect, err := gateway.CreatePayment(c, summary)
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindGatewayUnavailable, err)
	}
	if redirect.RedirectURL == "" {
		return Outcome{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindGatewayUnavailable, "%s returned no payment page", gateway.Method())
	}

	now := s.nower.Now()
	err = s.paymentStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		err := s.paymentStore.Put(c, redirect.TransactionUID, checkoutapi.PendingPayment{
			TransactionUID: redirect.TransactionUID,
			PaymentMethod:  gateway.Method(),
			CustomerUID:    customer.UID,
			FirstName:      customer.FirstName,
			LastName:       customer.LastName,
			Phone:          customer.Phone,
			Email:          customer.Email,
			CreatedAt:      now,
			LastModified:   now,
			PaymentDate:    now,
			Amount:         summary.Amount,
			Description:    summary.Description,
			RedirectURL:    redirect.RedirectURL,
			Status:         checkoutapi.PaymentStatusPending,
			Items:          currentCart.Copy().Items,
		})
		if err != nil {
			return fmt.Errorf("error storing pending payment %s: %s", redirect.TransactionUID, err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			CheckoutUID:  redirect.TransactionUID,
			ProviderName: string(gateway.Method()),
			Amount:       summary.Amount,
			Currency:     checkoutapi.Currency,
			ShopperUID:   customer.UID,
		})
		if err != nil {
			return fmt.Errorf("error publishing event: %s", err)
		}

		return nil
	})
	if err != nil {
		return Outcome{}, checkoutapi.NewError(checkoutapi.ErrorKindSystemError, err)
	}

	s.clearCart(c, session)

	return Outcome{
		Kind:           OutcomeRedirectRequired,
		RedirectURL:    redirect.RedirectURL,
		TransactionUID: redirect.TransactionUID,
		Amount:         summary.Amount,
	}, nil
}

// clearCart runs after the order or payment was committed, so a failure cannot undo the checkout.
func (s *Service) clearCart(c context.Context, session cart.Session) {
	err := s.carts.ClearCart(c, session)
	if err != nil {
		s.logger.Log(c, session.UID, mylog.SeverityError, "Error clearing cart after checkout: %s", err)
	}
}
