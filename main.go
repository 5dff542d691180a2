package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/myconfig"
	"github.com/MarcGrol/cartcheckout/lib/myevents"
	"github.com/MarcGrol/cartcheckout/lib/myhttpclient"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mypublisher"
	"github.com/MarcGrol/cartcheckout/lib/mypubsub"
	"github.com/MarcGrol/cartcheckout/lib/myqueue"
	"github.com/MarcGrol/cartcheckout/lib/mystore"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/catalog"
	"github.com/MarcGrol/cartcheckout/services/checkout"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutmomo"
	"github.com/MarcGrol/cartcheckout/services/checkoutvnpay"
	"github.com/MarcGrol/cartcheckout/services/orders"
	"github.com/MarcGrol/cartcheckout/services/warmup"
)

func main() {
	c := context.Background()

	cfg, err := myconfig.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	outboxStore, outboxStoreCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		log.Fatalf("Error creating outbox store: %s", err)
	}
	defer outboxStoreCleanup()

	publisher := mypublisher.New(c, outboxStore, pubsub, queue, nower)
	publisher.RegisterEndpoints(c, router)

	productStore, productStoreCleanup, err := mystore.New[catalog.Product](c)
	if err != nil {
		log.Fatalf("Error creating product store: %s", err)
	}
	defer productStoreCleanup()

	customerStore, customerStoreCleanup, err := mystore.New[catalog.Customer](c)
	if err != nil {
		log.Fatalf("Error creating customer store: %s", err)
	}
	defer customerStoreCleanup()

	catalogService := catalog.NewWebService(productStore, customerStore)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog service: %s", err)
	}
	products, customers := catalogService.Lookups()

	err = warmup.NewWebService(products).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering warmup service: %s", err)
	}

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	cartService := cart.NewWebService(cartStore, products, nower, uuider)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart service: %s", err)
	}

	paymentStore, paymentStoreCleanup, err := mystore.New[checkoutapi.PendingPayment](c)
	if err != nil {
		log.Fatalf("Error creating payment store: %s", err)
	}
	defer paymentStoreCleanup()

	resultStore, resultStoreCleanup, err := mystore.New[checkoutapi.PaymentResult](c)
	if err != nil {
		log.Fatalf("Error creating payment result store: %s", err)
	}
	defer resultStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[orders.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	orderService := orders.NewService(orderStore, paymentStore, publisher, pubsub, uuider, nower, mylog.New("orders"), cfg.HTTP.BaseURL)
	err = orders.NewWebService(orderService).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order service: %s", err)
	}

	momoGateway := checkoutmomo.NewGateway(checkoutmomo.Config{
		Endpoint:    cfg.Momo.Endpoint,
		PartnerCode: cfg.Momo.PartnerCode,
		AccessKey:   cfg.Momo.AccessKey,
		SecretKey:   cfg.Momo.SecretKey,
		RedirectURL: cfg.Momo.RedirectURL,
		IpnURL:      cfg.Momo.IpnURL,
	}, myhttpclient.New(cfg.Momo.Timeout), uuider)

	vnpayGateway := checkoutvnpay.NewGateway(checkoutvnpay.Config{
		PaymentURL: cfg.Vnpay.PaymentURL,
		TmnCode:    cfg.Vnpay.TmnCode,
		HashSecret: cfg.Vnpay.HashSecret,
		ReturnURL:  cfg.Vnpay.ReturnURL,
		Locale:     cfg.Vnpay.Locale,
	}, nower, uuider)

	checkoutService := checkout.NewService(cartService.Service(), customers, orderService, paymentStore, resultStore,
		publisher, nower, mylog.New("checkout"), momoGateway, vnpayGateway)
	err = checkout.NewWebService(checkoutService, uuider).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout service: %s", err)
	}

	err = checkoutmomo.NewWebService(momoGateway, checkoutService, nower).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering momo service: %s", err)
	}

	err = checkoutvnpay.NewWebService(vnpayGateway, checkoutService).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering vnpay service: %s", err)
	}

	startWebServerBlocking(cfg.HTTP.Port, router)
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/products)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
