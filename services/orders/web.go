package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
)

type WebService struct {
	logger  mylog.Logger
	service *Service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(service *Service) *WebService {
	return &WebService{
		logger:  service.logger,
		service: service,
	}
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.Subscribe(c)
	if err != nil {
		return err
	}

	router.HandleFunc("/orders/event", s.handleEventEnvelopePage()).Methods("POST")
	router.HandleFunc("/orders", s.listOrdersPage()).Methods("GET")
	router.HandleFunc("/orders/{orderUID}", s.getOrderPage()).Methods("GET")

	return nil
}

// handleEventEnvelopePage is the push endpoint of the checkout subscription
func (s *WebService) handleEventEnvelopePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}

func (s *WebService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		customerUID := r.Header.Get(checkoutapi.CustomerUIDHeader)
		if customerUID == "" {
			errorWriter.WriteError(c, w, 1, myerrors.NewAuthenticationError(fmt.Errorf("no customer signed in")))
			return
		}

		orders, err := s.service.ListOrdersOfCustomer(c, customerUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *WebService) getOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.GetOrder(c, mux.Vars(r)["orderUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}
