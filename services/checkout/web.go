package checkout

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
)

type WebService struct {
	logger  mylog.Logger
	service *Service
	uuider  myuuid.UUIDer
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(service *Service, uuider myuuid.UUIDer) *WebService {
	return &WebService{
		logger:  service.logger,
		service: service,
		uuider:  uuider,
	}
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	router.HandleFunc("/checkout", s.checkoutPage()).Methods("POST")

	router.HandleFunc("/payment/list", s.listPaymentResultsPage()).Methods("GET")
	router.HandleFunc("/payment/pending/{transactionUID}", s.getPendingPaymentPage()).Methods("GET")

	return nil
}

func (s *WebService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		session := cart.SessionFromRequest(w, r, s.uuider)

		request, err := checkoutapi.NewFromRequest(r)
		if err != nil {
			s.redirectToCart(c, w, r, session, checkoutapi.NewError(checkoutapi.ErrorKindSystemError, err))
			return
		}

		outcome, err := s.service.Checkout(c, session, r.Header.Get(checkoutapi.CustomerUIDHeader), request)
		if err != nil {
			if checkoutapi.IsKind(err, checkoutapi.ErrorKindUnauthenticated) {
				http.Redirect(w, r, checkoutapi.SigninPage, http.StatusSeeOther)
				return
			}
			s.redirectToCart(c, w, r, session, err)
			return
		}

		switch outcome.Kind {
		case OutcomeRedirectRequired:
			http.Redirect(w, r, outcome.RedirectURL, http.StatusSeeOther)
		default:
			http.Redirect(w, r, checkoutapi.CartPageURL(string(outcome.Kind), "", ""), http.StatusSeeOther)
		}
	}
}

func (s *WebService) redirectToCart(c context.Context, w http.ResponseWriter, r *http.Request, session cart.Session, err error) {
	kind := checkoutapi.KindOf(err)
	s.logger.Log(c, session.UID, mylog.SeverityWarn, "Checkout failed: %s", err)

	message := err.Error()
	if kind == checkoutapi.ErrorKindSystemError {
		message = "Something went wrong, please try again later"
	}
	http.Redirect(w, r, checkoutapi.CartPageURL(string(kind), message, ""), http.StatusSeeOther)
}

func (s *WebService) listPaymentResultsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		results, err := s.service.ListPaymentResults(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, results)
	}
}

func (s *WebService) getPendingPaymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		payment, err := s.service.GetPendingPayment(c, mux.Vars(r)["transactionUID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, payment)
	}
}
