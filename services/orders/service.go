package orders

import (
	"context"
	"fmt"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mypublisher"
	"github.com/MarcGrol/cartcheckout/lib/mypubsub"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/catalog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
	"github.com/MarcGrol/cartcheckout/services/orders/orderevents"
)

type Service struct {
	orderStore   mystore.Store[Order]
	paymentStore mystore.Store[checkoutapi.PendingPayment]
	publisher    mypublisher.Publisher
	pubsub       mypubsub.PubSub
	uuider       myuuid.UUIDer
	nower        mytime.Nower
	logger       mylog.Logger
	baseURL      string
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(orderStore mystore.Store[Order], paymentStore mystore.Store[checkoutapi.PendingPayment], publisher mypublisher.Publisher,
	pubsub mypubsub.PubSub, uuider myuuid.UUIDer, nower mytime.Nower, logger mylog.Logger, baseURL string) *Service {
	return &Service{
		orderStore:   orderStore,
		paymentStore: paymentStore,
		publisher:    publisher,
		pubsub:       pubsub,
		uuider:       uuider,
		nower:        nower,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// Place books a cash-on-delivery order for the contents of the cart.
func (s *Service) Place(c context.Context, customer catalog.Customer, currentCart cart.Cart) (bool, error) {
	if currentCart.IsEmpty() {
		return false, nil
	}

	order := Order{
		UID:           s.uuider.Create(),
		CustomerUID:   customer.UID,
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Phone:         customer.Phone,
		Email:         customer.Email,
		PaymentMethod: string(checkoutapi.PaymentMethodCOD),
		Amount:        currentCart.Total(),
		Currency:      checkoutapi.Currency,
		Items:         currentCart.Copy().Items,
		CreatedAt:     s.nower.Now(),
	}

	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		return s.store(c, order)
	})
	if err != nil {
		return false, err
	}

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Placed order %s of %s %s for customer %s", order.UID, checkoutapi.FormatAmount(order.Amount), order.Currency, order.CustomerUID)

	return true, nil
}

func (s *Service) GetOrder(c context.Context, orderUID string) (Order, error) {
	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order %s not found", orderUID))
	}
	return order, nil
}

func (s *Service) ListOrdersOfCustomer(c context.Context, customerUID string) ([]Order, error) {
	orders, err := s.orderStore.Query(c, []mystore.Filter{{Field: "CustomerUID", Compare: "=", Value: customerUID}}, "")
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing orders of customer %s: %s", customerUID, err))
	}
	return orders, nil
}

func (s *Service) store(c context.Context, order Order) error {
	err := s.orderStore.Put(c, order.UID, order)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", order.UID, err))
	}

	err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPlaced{
		OrderUID:      order.UID,
		CustomerUID:   order.CustomerUID,
		PaymentMethod: order.PaymentMethod,
		Amount:        order.Amount,
		Currency:      order.Currency,
		ItemCount:     order.Quantity(),
	})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}
	return nil
}

func (s *Service) Subscribe(c context.Context) error {
	err := s.publisher.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	err = s.pubsub.Subscribe(c, checkoutevents.TopicName, s.baseURL+"/orders/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *Service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	s.logger.Log(c, event.CheckoutUID, mylog.SeverityInfo, "Checkout %s started via %s for %d %s", event.CheckoutUID, event.ProviderName, event.Amount, event.Currency)
	return nil
}

// OnCheckoutCompleted books the order of a paid hosted checkout; the order takes the uid of the transaction.
func (s *Service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	s.logger.Log(c, event.CheckoutUID, mylog.SeverityInfo, "Checkout %s completed via %s -> %s", event.CheckoutUID, event.ProviderName, event.CheckoutStatus)

	if event.CheckoutStatus != checkoutevents.CheckoutStatusSuccess {
		return nil
	}

	payment, found, err := s.paymentStore.Get(c, event.CheckoutUID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error fetching pending payment %s: %s", event.CheckoutUID, err))
	}
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("pending payment %s not found", event.CheckoutUID))
	}

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		_, exists, err := s.orderStore.Get(c, payment.TransactionUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", payment.TransactionUID, err))
		}
		if exists {
			return nil
		}

		return s.store(c, Order{
			UID:           payment.TransactionUID,
			CustomerUID:   payment.CustomerUID,
			FirstName:     payment.FirstName,
			LastName:      payment.LastName,
			Phone:         payment.Phone,
			Email:         payment.Email,
			PaymentMethod: string(payment.PaymentMethod),
			Amount:        payment.Amount,
			Currency:      checkoutapi.Currency,
			Items:         payment.Items,
			CreatedAt:     s.nower.Now(),
		})
	})
}
