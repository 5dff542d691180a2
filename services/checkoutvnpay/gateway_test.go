package checkoutvnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

const (
	hashSecret    = "SECRETKEY123"
	transactionID = "5b0f8a52-8a0e-4a4e-9d4c-2f1d6f0b7a11"
	txnRef        = "5b0f8a528a0e4a4e9d4c2f1d6f0b7a11"
)

var (
	testConfig = Config{
		PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:    "TMNCODE1",
		HashSecret: hashSecret,
		ReturnURL:  "http://localhost:8080/checkout/vnpay/return",
		Locale:     "vn",
	}
	summary = checkoutapi.OrderSummary{
		PayerName:            "Nguyen An",
		Amount:               200000,
		TotalAmountFormatted: "200,000",
		Description:          "",
	}
)

func TestCanonicalQuery(t *testing.T) {
	values := url.Values{
		"vnp_TxnRef":         {"abc"},
		"vnp_Amount":         {"20000000"},
		"vnp_OrderInfo":      {"Thanh toan don hang"},
		"vnp_SecureHash":     {"ignored"},
		"vnp_SecureHashType": {"HmacSHA512"},
		"vnp_BankCode":       {""},
		"utm_source":         {"mail"},
	}

	assert.Equal(t, "vnp_Amount=20000000&vnp_OrderInfo=Thanh+toan+don+hang&vnp_TxnRef=abc", canonicalQuery(values))
}

func TestSignature(t *testing.T) {
	values := url.Values{
		"vnp_Amount":       {"20000000"},
		"vnp_ResponseCode": {"00"},
		"vnp_TxnRef":       {"abc"},
	}

	mac := hmac.New(sha512.New, []byte(hashSecret))
	mac.Write([]byte("vnp_Amount=20000000&vnp_ResponseCode=00&vnp_TxnRef=abc"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, signatureOf(hashSecret, values))
	assert.True(t, signatureMatches(hashSecret, values, expected))
	assert.True(t, signatureMatches(hashSecret, values, strings.ToUpper(expected)))
	assert.False(t, signatureMatches("other-secret", values, expected))
	assert.False(t, signatureMatches(hashSecret, values, "not-hex"))
	assert.False(t, signatureMatches(hashSecret, values, expected[:10]))
}

func TestCreatePayment(t *testing.T) {

	t.Run("Signed payment url", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		gateway := setupGateway(ctrl)

		// when
		redirect, err := gateway.CreatePayment(context.Background(), summary)

		// then
		assert.NoError(t, err)
		assert.Equal(t, txnRef, redirect.TransactionUID)
		assert.True(t, strings.HasPrefix(redirect.RedirectURL, testConfig.PaymentURL+"?"))

		query := queryOf(t, redirect.RedirectURL)
		assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
		assert.Equal(t, "pay", query.Get("vnp_Command"))
		assert.Equal(t, "TMNCODE1", query.Get("vnp_TmnCode"))
		assert.Equal(t, "20000000", query.Get("vnp_Amount"))
		assert.Equal(t, "VND", query.Get("vnp_CurrCode"))
		assert.Equal(t, txnRef, query.Get("vnp_TxnRef"))
		assert.Equal(t, "other", query.Get("vnp_OrderType"))
		assert.Equal(t, "vn", query.Get("vnp_Locale"))
		assert.Equal(t, testConfig.ReturnURL, query.Get("vnp_ReturnUrl"))
		assert.Equal(t, "127.0.0.1", query.Get("vnp_IpAddr"))
		assert.Equal(t, "20230228065859", query.Get("vnp_CreateDate"))
		assert.Equal(t, "20230228071359", query.Get("vnp_ExpireDate"))
		assert.Equal(t, "Thanh toan don hang "+txnRef+" cho Nguyen An", query.Get("vnp_OrderInfo"))
		assert.NoError(t, gateway.VerifyCallback(query))
	})

	t.Run("Deterministic across runs", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		first, err := setupGateway(ctrl).CreatePayment(context.Background(), summary)
		assert.NoError(t, err)

		// when
		second, err := setupGateway(ctrl).CreatePayment(context.Background(), summary)

		// then
		assert.NoError(t, err)
		assert.Equal(t, first.RedirectURL, second.RedirectURL)
	})

	t.Run("Tampered amount rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		redirect, err := setupGateway(ctrl).CreatePayment(context.Background(), summary)
		assert.NoError(t, err)
		query := queryOf(t, redirect.RedirectURL)

		// given
		query.Set("vnp_Amount", "100")

		// when
		err = NewGateway(testConfig, nil, nil).VerifyCallback(query)

		// then
		assert.Error(t, err)
		assert.True(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})
}

func TestVerifyCallback(t *testing.T) {
	gateway := NewGateway(testConfig, nil, nil)

	t.Run("Untampered accepted", func(t *testing.T) {
		assert.NoError(t, gateway.VerifyCallback(signed(returnValues("00"))))
	})

	t.Run("Uppercase hash accepted", func(t *testing.T) {
		values := signed(returnValues("00"))
		values.Set(fieldSecureHash, strings.ToUpper(values.Get(fieldSecureHash)))
		assert.NoError(t, gateway.VerifyCallback(values))
	})

	t.Run("Hash type does not take part", func(t *testing.T) {
		values := signed(returnValues("00"))
		values.Set(fieldSecureHashType, "HmacSHA512")
		assert.NoError(t, gateway.VerifyCallback(values))
	})

	t.Run("Tampered response code rejected", func(t *testing.T) {
		values := signed(returnValues("24"))
		values.Set("vnp_ResponseCode", "00")
		err := gateway.VerifyCallback(values)
		assert.True(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})

	t.Run("Missing hash rejected", func(t *testing.T) {
		err := gateway.VerifyCallback(returnValues("00"))
		assert.True(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})

	t.Run("Malformed hash rejected", func(t *testing.T) {
		values := returnValues("00")
		values.Set(fieldSecureHash, "zz")
		err := gateway.VerifyCallback(values)
		assert.True(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})
}

func TestParseCallback(t *testing.T) {
	gateway := NewGateway(testConfig, nil, nil)

	t.Run("Success", func(t *testing.T) {
		result, err := gateway.ParseCallback(signed(returnValues("00")))
		assert.NoError(t, err)
		assert.Equal(t, txnRef, result.TransactionUID)
		assert.True(t, result.Success)
		assert.Equal(t, int64(200000), result.Amount)
	})

	t.Run("Cancelled by user", func(t *testing.T) {
		result, err := gateway.ParseCallback(signed(returnValues("24")))
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "vnp_ResponseCode=24 vnp_TransactionStatus=02", result.StatusDetails)
	})

	t.Run("Not trusted before verified", func(t *testing.T) {
		values := signed(returnValues("24"))
		values.Set("vnp_ResponseCode", "00")
		_, err := gateway.ParseCallback(values)
		assert.True(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})

	t.Run("Unparseable amount rejected", func(t *testing.T) {
		values := returnValues("00")
		values.Set("vnp_Amount", "abc")

		_, err := gateway.ParseCallback(signed(values))
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.False(t, checkoutapi.IsKind(err, checkoutapi.ErrorKindSignatureInvalid))
	})
}

func setupGateway(ctrl *gomock.Controller) *Gateway {
	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().Return(transactionID).AnyTimes()

	return NewGateway(testConfig, nower, uuider)
}

func queryOf(t *testing.T, rawURL string) url.Values {
	u, err := url.Parse(rawURL)
	assert.NoError(t, err)
	return u.Query()
}

func returnValues(responseCode string) url.Values {
	transactionStatus := "00"
	if responseCode != "00" {
		transactionStatus = "02"
	}
	return url.Values{
		"vnp_Amount":            {"20000000"},
		"vnp_BankCode":          {"NCB"},
		"vnp_OrderInfo":         {"Thanh toan don hang"},
		"vnp_PayDate":           {"20230228070102"},
		"vnp_ResponseCode":      {responseCode},
		"vnp_TmnCode":           {"TMNCODE1"},
		"vnp_TransactionNo":     {"14012345"},
		"vnp_TransactionStatus": {transactionStatus},
		"vnp_TxnRef":            {txnRef},
	}
}

func signed(values url.Values) url.Values {
	return SignedValues(testConfig, values)
}
