package checkoutvnpay

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttp"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

// IPNResponse is the acknowledgement VNPay expects; it always travels with http 200.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type WebService struct {
	logger     mylog.Logger
	gateway    checkoutapi.Gateway
	reconciler checkoutapi.Reconciler
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(gateway checkoutapi.Gateway, reconciler checkoutapi.Reconciler) *WebService {
	return &WebService{
		logger:     mylog.New("checkoutvnpay"),
		gateway:    gateway,
		reconciler: reconciler,
	}
}

func (s *WebService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout/vnpay/return", s.returnPage()).Methods("GET")
	router.HandleFunc("/checkout/vnpay/ipn", s.ipn()).Methods("GET")

	return nil
}

// returnPage is where VNPay sends the browser after the payment attempt
func (s *WebService) returnPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		payment, _, err := s.reconciler.ReconcileCallback(c, s.gateway, r.URL.Query())
		if err != nil {
			s.logger.Log(c, r.URL.Query().Get("vnp_TxnRef"), mylog.SeverityWarn, "Error processing vnpay return: %s", err)
			http.Redirect(w, r, checkoutapi.CartPageURL(string(checkoutapi.KindOf(err)), err.Error(), ""), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, checkoutapi.CartPageURL(string(payment.Status), payment.StatusDetails, payment.TransactionUID), http.StatusSeeOther)
	}
}

// ipn is the server-to-server confirmation of VNPay
func (s *WebService) ipn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, changed, err := s.reconciler.ReconcileCallback(c, s.gateway, r.URL.Query())
		if err != nil {
			s.logger.Log(c, r.URL.Query().Get("vnp_TxnRef"), mylog.SeverityWarn, "Error processing vnpay ipn: %s", err)
		}

		responseWriter.Write(c, w, http.StatusOK, ipnResponseFor(changed, err))
	}
}

func ipnResponseFor(changed bool, err error) IPNResponse {
	switch {
	case err == nil && changed:
		return IPNResponse{RspCode: "00", Message: "Confirm Success"}
	case err == nil:
		return IPNResponse{RspCode: "02", Message: "Order already confirmed"}
	case checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid):
		return IPNResponse{RspCode: "97", Message: "Invalid signature"}
	case errors.Is(err, checkoutapi.ErrAmountMismatch):
		return IPNResponse{RspCode: "04", Message: "Invalid amount"}
	case myerrors.GetHTTPStatus(err) == http.StatusNotFound:
		return IPNResponse{RspCode: "01", Message: "Order not found"}
	default:
		return IPNResponse{RspCode: "99", Message: "Unknown error"}
	}
}
