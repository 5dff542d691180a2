package checkoutmomo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

type WebService struct {
	logger     mylog.Logger
	gateway    checkoutapi.Gateway
	reconciler checkoutapi.Reconciler
	nower      mytime.Nower
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(gateway checkoutapi.Gateway, reconciler checkoutapi.Reconciler, nower mytime.Nower) *WebService {
	return &WebService{
		logger:     mylog.New("checkoutmomo"),
		gateway:    gateway,
		reconciler: reconciler,
		nower:      nower,
	}
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout/momo/ipn", s.ipn()).Methods("POST")
	router.HandleFunc("/checkout/momo/return", s.returnPage()).Methods("GET")

	return nil
}

// ipn receives the server-to-server payment notification of MoMo
func (s *WebService) ipn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		result := checkoutapi.PaymentResult{}
		err := json.NewDecoder(r.Body).Decode(&result)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputErrorf("error parsing momo notification: %s", err))
			return
		}
		result.ReceivedAt = s.nower.Now()

		err = s.reconciler.RecordPaymentResult(c, s.gateway, result)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusNoContent, nil)
	}
}

// returnPage is where MoMo sends the browser after the payment attempt
func (s *WebService) returnPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		payment, _, err := s.reconciler.ReconcileCallback(c, s.gateway, r.URL.Query())
		if err != nil {
			s.logger.Log(c, r.URL.Query().Get("orderId"), mylog.SeverityWarn, "Error processing momo return: %s", err)
			http.Redirect(w, r, checkoutapi.CartPageURL(string(checkoutapi.KindOf(err)), err.Error(), ""), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, checkoutapi.CartPageURL(string(payment.Status), payment.StatusDetails, payment.TransactionUID), http.StatusSeeOther)
	}
}
