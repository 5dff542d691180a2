package checkout

import (
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mypublisher"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/services/catalog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

type Service struct {
	carts        CartStore
	customers    catalog.CustomerLookup
	orders       OrderPlacer
	gateways     map[checkoutapi.PaymentMethod]checkoutapi.Gateway
	paymentStore mystore.Store[checkoutapi.PendingPayment]
	resultStore  mystore.Store[checkoutapi.PaymentResult]
	publisher    mypublisher.Publisher
	nower        mytime.Nower
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(carts CartStore, customers catalog.CustomerLookup, orders OrderPlacer,
	paymentStore mystore.Store[checkoutapi.PendingPayment], resultStore mystore.Store[checkoutapi.PaymentResult],
	publisher mypublisher.Publisher, nower mytime.Nower, logger mylog.Logger, gateways ...checkoutapi.Gateway) *Service {
	gatewayPerMethod := map[checkoutapi.PaymentMethod]checkoutapi.Gateway{}
	for _, gateway := range gateways {
		gatewayPerMethod[gateway.Method()] = gateway
	}

	return &Service{
		carts:        carts,
		customers:    customers,
		orders:       orders,
		gateways:     gatewayPerMethod,
		paymentStore: paymentStore,
		resultStore:  resultStore,
		publisher:    publisher,
		nower:        nower,
		logger:       logger,
	}
}
