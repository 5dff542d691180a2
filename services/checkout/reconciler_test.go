package checkout

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
	"github.com/MarcGrol/cartcheckout/services/checkoutmomo"
)

var (
	momoConfig = checkoutmomo.Config{
		PartnerCode: "MOMOBKUN20180529",
		AccessKey:   "klm05TvNBzhg7h7j",
		SecretKey:   "at67qH6mk8w5Y1nAyMoYKMWACiEi2bsa",
	}
	callbackValues = url.Values{"orderId": {transactionUID}}
)

func TestReconcileCallback(t *testing.T) {

	t.Run("Pending becomes completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)
		f.momo.EXPECT().ParseCallback(callbackValues).Return(checkoutapi.CallbackResult{
			TransactionUID: transactionUID,
			Success:        true,
			StatusDetails:  "resultCode=0",
			Amount:         200000,
		}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:           transactionUID,
			ProviderName:          "momo",
			PaymentMethod:         "momo",
			CheckoutStatus:        checkoutevents.CheckoutStatusSuccess,
			CheckoutStatusDetails: "resultCode=0",
		}).Return(nil)

		// when
		payment, changed, err := f.sut.ReconcileCallback(f.c, f.momo, callbackValues)

		// then
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, checkoutapi.PaymentStatusCompleted, payment.Status)
		assertStatus(t, f, checkoutapi.PaymentStatusCompleted)
	})

	t.Run("Pending becomes failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodVnpay, checkoutapi.PaymentStatusPending)
		f.vnpay.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{
			TransactionUID: transactionUID,
			Success:        false,
			StatusDetails:  "vnp_ResponseCode=24",
		}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil)

		// when
		payment, changed, err := f.sut.ReconcileCallback(f.c, f.vnpay, callbackValues)

		// then
		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, checkoutapi.PaymentStatusFailed, payment.Status)
		assert.Equal(t, "vnp_ResponseCode=24", payment.StatusDetails)
		assertStatus(t, f, checkoutapi.PaymentStatusFailed)
	})

	t.Run("Redelivery is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusCompleted)
		f.momo.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{TransactionUID: transactionUID, Success: true}, nil)

		// when
		payment, changed, err := f.sut.ReconcileCallback(f.c, f.momo, callbackValues)

		// then
		assert.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, checkoutapi.PaymentStatusCompleted, payment.Status)
	})

	t.Run("Conflicting status is ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusCompleted)
		f.momo.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{TransactionUID: transactionUID, Success: false}, nil)

		// when
		_, changed, err := f.sut.ReconcileCallback(f.c, f.momo, callbackValues)

		// then
		assert.NoError(t, err)
		assert.False(t, changed)
		assertStatus(t, f, checkoutapi.PaymentStatusCompleted)
	})

	t.Run("Invalid signature changes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodVnpay, checkoutapi.PaymentStatusPending)
		f.vnpay.EXPECT().ParseCallback(gomock.Any()).
			Return(checkoutapi.CallbackResult{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "mismatch"))

		// when
		_, _, err := f.sut.ReconcileCallback(f.c, f.vnpay, callbackValues)

		// then
		assert.Equal(t, checkoutapi.ErrorKindSignatureInvalid, checkoutapi.KindOf(err))
		assertStatus(t, f, checkoutapi.PaymentStatusPending)
	})

	t.Run("Unknown transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		f.momo.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{TransactionUID: "unknown", Success: true}, nil)

		// when
		_, _, err := f.sut.ReconcileCallback(f.c, f.momo, callbackValues)

		// then
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
	})

	t.Run("Amount mismatch changes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodVnpay, checkoutapi.PaymentStatusPending)
		f.vnpay.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{TransactionUID: transactionUID, Success: true, Amount: 1000}, nil)

		// when
		_, _, err := f.sut.ReconcileCallback(f.c, f.vnpay, callbackValues)

		// then
		assert.ErrorIs(t, err, checkoutapi.ErrAmountMismatch)
		assertStatus(t, f, checkoutapi.PaymentStatusPending)
	})

	t.Run("Callback of other gateway rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)
		f.vnpay.EXPECT().ParseCallback(gomock.Any()).Return(checkoutapi.CallbackResult{TransactionUID: transactionUID, Success: true}, nil)

		// when
		_, _, err := f.sut.ReconcileCallback(f.c, f.vnpay, callbackValues)

		// then
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assertStatus(t, f, checkoutapi.PaymentStatusPending)
	})
}

func TestRecordPaymentResult(t *testing.T) {

	t.Run("Success completes pending payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil)
		result := checkoutmomo.SignedResult(momoConfig, momoResult(0))

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, result)

		// then
		assert.NoError(t, err)
		assertStatus(t, f, checkoutapi.PaymentStatusCompleted)
		stored, found, err := f.resultStore.Get(f.c, transactionUID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, result, stored)
	})

	t.Run("Redelivered success changes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusCompleted)

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, checkoutmomo.SignedResult(momoConfig, momoResult(0)))

		// then
		assert.NoError(t, err)
		assertStatus(t, f, checkoutapi.PaymentStatusCompleted)
	})

	t.Run("Success without pending payment is stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, checkoutmomo.SignedResult(momoConfig, momoResult(0)))

		// then
		assert.NoError(t, err)
		results, err := f.sut.ListPaymentResults(f.c)
		assert.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("Failed payment persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, checkoutmomo.SignedResult(momoConfig, momoResult(1006)))

		// then
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Contains(t, err.Error(), "payment failed")
		assertStatus(t, f, checkoutapi.PaymentStatusPending)
		results, err := f.resultStore.List(f.c)
		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Invalid signature persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)
		result := checkoutmomo.SignedResult(momoConfig, momoResult(0))
		result.Amount = 1

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, result)

		// then
		assert.Equal(t, checkoutapi.ErrorKindSignatureInvalid, checkoutapi.KindOf(err))
		assertNothingPersistedBut(t, f, checkoutapi.PaymentStatusPending)
	})

	t.Run("Amount mismatch persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodMomo, checkoutapi.PaymentStatusPending)
		result := momoResult(0)
		result.Amount = 1000

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, checkoutmomo.SignedResult(momoConfig, result))

		// then
		assert.ErrorIs(t, err, checkoutapi.ErrAmountMismatch)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assertNothingPersistedBut(t, f, checkoutapi.PaymentStatusPending)
	})

	t.Run("Other gateway persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		f := setup(t, ctrl)
		gateway := checkoutmomo.NewGateway(momoConfig, nil, nil)

		// given
		givenPendingPayment(t, f, checkoutapi.PaymentMethodVnpay, checkoutapi.PaymentStatusPending)

		// when
		err := f.sut.RecordPaymentResult(f.c, gateway, checkoutmomo.SignedResult(momoConfig, momoResult(0)))

		// then
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assertNothingPersistedBut(t, f, checkoutapi.PaymentStatusPending)
	})
}

func givenPendingPayment(t *testing.T, f fixture, method checkoutapi.PaymentMethod, status checkoutapi.PaymentStatus) {
	err := f.paymentStore.Put(f.c, transactionUID, checkoutapi.PendingPayment{
		TransactionUID: transactionUID,
		PaymentMethod:  method,
		CustomerUID:    customer1.UID,
		Amount:         200000,
		Status:         status,
		Items:          cart1.Items,
	})
	assert.NoError(t, err)
}

func assertStatus(t *testing.T, f fixture, expected checkoutapi.PaymentStatus) {
	payment, found, err := f.paymentStore.Get(f.c, transactionUID)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expected, payment.Status)
}

func assertNothingPersistedBut(t *testing.T, f fixture, status checkoutapi.PaymentStatus) {
	assertStatus(t, f, status)
	results, err := f.resultStore.List(f.c)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func momoResult(resultCode int) checkoutapi.PaymentResult {
	return checkoutapi.PaymentResult{
		PartnerCode:  momoConfig.PartnerCode,
		OrderID:      transactionUID,
		RequestID:    transactionUID,
		Amount:       200000,
		OrderInfo:    "Khach hang: Nguyen An",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   resultCode,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1677542339000,
	}
}
