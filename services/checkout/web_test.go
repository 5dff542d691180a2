package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/cart"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
)

func TestCheckoutWebService(t *testing.T) {

	t.Run("Cash on delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		f.carts.EXPECT().GetCart(gomock.Any(), session1).Return(cart1, nil)
		f.customers.EXPECT().GetCustomer(gomock.Any(), "customer_1").Return(customer1, true, nil)
		f.orders.EXPECT().Place(gomock.Any(), customer1, cart1).Return(true, nil)
		f.carts.EXPECT().ClearCart(gomock.Any(), session1).Return(nil)

		// when
		response := postCheckout(t, router, "customer_1", url.Values{"paymentMethod": {"COD"}, "amount": {"200,000"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart?status=OrderPlaced", response.Header().Get("Location"))
	})

	t.Run("Hosted gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		f.carts.EXPECT().GetCart(gomock.Any(), session1).Return(cart1, nil)
		f.customers.EXPECT().GetCustomer(gomock.Any(), "customer_1").Return(customer1, true, nil)
		f.momo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(checkoutapi.Redirect{TransactionUID: transactionUID, RedirectURL: payURL}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.carts.EXPECT().ClearCart(gomock.Any(), session1).Return(nil)

		// when
		response := postCheckout(t, router, "customer_1", url.Values{"paymentMethod": {"momo"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, payURL, response.Header().Get("Location"))
	})

	t.Run("Unauthenticated goes to signin", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		f.carts.EXPECT().GetCart(gomock.Any(), session1).Return(cart1, nil)

		// when
		response := postCheckout(t, router, "", url.Values{"paymentMethod": {"cod"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/customer/signin", response.Header().Get("Location"))
	})

	t.Run("Empty cart goes back to cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		f.carts.EXPECT().GetCart(gomock.Any(), session1).Return(emptyCart, nil)

		// when
		response := postCheckout(t, router, "customer_1", url.Values{"paymentMethod": {"cod"}})

		// then
		assert.Equal(t, 303, response.Code)
		location := response.Header().Get("Location")
		assert.True(t, strings.HasPrefix(location, "/cart?"))
		assert.Contains(t, location, "status=EmptyCart")
	})

	t.Run("Get pending payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodVnpay, checkoutapi.PaymentStatusPending)

		// when
		response := get(t, router, "/payment/pending/"+transactionUID)

		// then
		assert.Equal(t, 200, response.Code)
		payment := checkoutapi.PendingPayment{}
		err := json.Unmarshal(response.Body.Bytes(), &payment)
		assert.NoError(t, err)
		assert.Equal(t, checkoutapi.PaymentStatusPending, payment.Status)
		assert.Equal(t, int64(200000), payment.Amount)
	})

	t.Run("Get unknown pending payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		_, router := setupWeb(t, ctrl)

		// when
		response := get(t, router, "/payment/pending/unknown")

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("List payment results", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f, router := setupWeb(t, ctrl)

		// given
		err := f.resultStore.Put(f.c, transactionUID, momoResult(0))
		assert.NoError(t, err)

		// when
		response := get(t, router, "/payment/list")

		// then
		assert.Equal(t, 200, response.Code)
		results := []checkoutapi.PaymentResult{}
		err = json.Unmarshal(response.Body.Bytes(), &results)
		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, transactionUID, results[0].OrderID)
	})
}

func postCheckout(t *testing.T, router *mux.Router, customerUID string, form url.Values) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	assert.NoError(t, err)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if customerUID != "" {
		request.Header.Set(checkoutapi.CustomerUIDHeader, customerUID)
	}
	request.AddCookie(cart.SessionCookie(session1))
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func get(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodGet, path, nil)
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setupWeb(t *testing.T, ctrl *gomock.Controller) (fixture, *mux.Router) {
	f := setup(t, ctrl)

	f.publisher.EXPECT().CreateTopic(gomock.Any(), checkoutevents.TopicName).Return(nil)

	sut := NewWebService(f.sut, myuuid.NewMockUUIDer(ctrl))

	router := mux.NewRouter()
	err := sut.RegisterEndpoints(f.c, router)
	assert.NoError(t, err)

	return f, router
}
