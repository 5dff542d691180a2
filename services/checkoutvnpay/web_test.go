package checkoutvnpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

func TestVnpayWebService(t *testing.T) {

	t.Run("Return completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, reconciler := setupWeb(t, ctrl)

		// given
		reconciler.EXPECT().ReconcileCallback(gomock.Any(), gomock.Any(), gomock.Any()).Return(checkoutapi.PendingPayment{
			TransactionUID: txnRef,
			Status:         checkoutapi.PaymentStatusCompleted,
		}, true, nil)

		// when
		response := get(t, router, "/checkout/vnpay/return?vnp_TxnRef="+txnRef)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart?status=Completed&transactionUID="+txnRef, response.Header().Get("Location"))
	})

	t.Run("Return with invalid signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, reconciler := setupWeb(t, ctrl)

		// given
		reconciler.EXPECT().ReconcileCallback(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(checkoutapi.PendingPayment{}, false, checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "mismatch"))

		// when
		response := get(t, router, "/checkout/vnpay/return?vnp_TxnRef="+txnRef)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Contains(t, response.Header().Get("Location"), "status=SignatureInvalid")
	})

	testCases := []struct {
		name            string
		changed         bool
		err             error
		expectedRspCode string
	}{
		{name: "Confirmed", changed: true, expectedRspCode: "00"},
		{name: "Already confirmed", changed: false, expectedRspCode: "02"},
		{name: "Invalid signature", err: checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "mismatch"), expectedRspCode: "97"},
		{name: "Unknown transaction", err: myerrors.NewNotFoundError(fmt.Errorf("not found")), expectedRspCode: "01"},
		{name: "Amount mismatch", err: myerrors.NewInvalidInputError(fmt.Errorf("%w: 100 != 200000", checkoutapi.ErrAmountMismatch)), expectedRspCode: "04"},
		{name: "Other", err: fmt.Errorf("datastore down"), expectedRspCode: "99"},
	}
	for _, tc := range testCases {
		t.Run("Ipn "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// setup
			router, reconciler := setupWeb(t, ctrl)

			// given
			reconciler.EXPECT().ReconcileCallback(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(checkoutapi.PendingPayment{TransactionUID: txnRef}, tc.changed, tc.err)

			// when
			response := get(t, router, "/checkout/vnpay/ipn?vnp_TxnRef="+txnRef)

			// then
			assert.Equal(t, 200, response.Code)
			resp := IPNResponse{}
			err := json.Unmarshal(response.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedRspCode, resp.RspCode)
		})
	}
}

func get(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodGet, path, nil)
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setupWeb(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *checkoutapi.MockReconciler) {
	c := context.Background()
	reconciler := checkoutapi.NewMockReconciler(ctrl)

	sut := NewWebService(NewGateway(testConfig, nil, nil), reconciler)

	router := mux.NewRouter()
	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return router, reconciler
}
