package checkoutmomo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/myhttpclient"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

type Config struct {
	Endpoint    string
	PartnerCode string
	AccessKey   string
	SecretKey   string
	RedirectURL string
	IpnURL      string
}

type Gateway struct {
	config Config
	sender myhttpclient.HTTPSender
	uuider myuuid.UUIDer
	logger mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewGateway(config Config, sender myhttpclient.HTTPSender, uuider myuuid.UUIDer) *Gateway {
	return &Gateway{
		config: config,
		sender: sender,
		uuider: uuider,
		logger: mylog.New("checkoutmomo"),
	}
}

func (g *Gateway) Method() checkoutapi.PaymentMethod {
	return checkoutapi.PaymentMethodMomo
}

// CreatePayment asks MoMo for a wallet payment page. A refusal by MoMo yields an empty redirect url.
func (g *Gateway) CreatePayment(c context.Context, summary checkoutapi.OrderSummary) (checkoutapi.Redirect, error) {
	orderID := g.uuider.Create()

	orderInfo := fmt.Sprintf("Khach hang: %s. Tong tien: %s %s", summary.PayerName, summary.TotalAmountFormatted, checkoutapi.Currency)
	if summary.Description != "" {
		orderInfo = fmt.Sprintf("%s. Noi dung: %s", orderInfo, summary.Description)
	}

	req := createPaymentRequest{
		PartnerCode: g.config.PartnerCode,
		RequestID:   orderID,
		Amount:      summary.Amount,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: g.config.RedirectURL,
		IpnURL:      g.config.IpnURL,
		RequestType: requestTypeCaptureWallet,
		ExtraData:   "",
		Lang:        languageVietnamese,
	}
	req.Signature = signatureOf(g.config.SecretKey, createRawSignature(g.config.AccessKey, req))

	body, err := json.Marshal(req)
	if err != nil {
		return checkoutapi.Redirect{}, fmt.Errorf("error marshalling momo request: %s", err)
	}

	httpStatus, respBody, err := g.sender.Send(c, http.MethodPost, g.config.Endpoint, body)
	if err != nil {
		return checkoutapi.Redirect{}, fmt.Errorf("error calling momo: %w", err)
	}

	resp := createPaymentResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return checkoutapi.Redirect{}, fmt.Errorf("error parsing momo response (http %d): %s", httpStatus, err)
	}

	if resp.ResultCode != resultCodeSuccess || resp.PayURL == "" {
		g.logger.Log(c, orderID, mylog.SeverityWarn, "MoMo refused payment (http %d): resultCode %d: %s", httpStatus, resp.ResultCode, resp.Message)
		return checkoutapi.Redirect{TransactionUID: orderID}, nil
	}

	g.logger.Log(c, orderID, mylog.SeverityInfo, "Created momo payment for amount %d", summary.Amount)

	return checkoutapi.Redirect{
		TransactionUID: orderID,
		RedirectURL:    resp.PayURL,
	}, nil
}

func (g *Gateway) VerifyCallback(values url.Values) error {
	received := values.Get("signature")
	if received == "" {
		return checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "missing momo signature")
	}
	if !signatureMatches(g.config.SecretKey, callbackRawSignature(g.config.AccessKey, values), received) {
		return checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "momo signature mismatch for order %s", values.Get("orderId"))
	}
	return nil
}

func (g *Gateway) ParseCallback(values url.Values) (checkoutapi.CallbackResult, error) {
	err := g.VerifyCallback(values)
	if err != nil {
		return checkoutapi.CallbackResult{}, err
	}

	orderID := values.Get("orderId")
	if orderID == "" {
		return checkoutapi.CallbackResult{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "missing orderId")
	}

	amount := int64(0)
	if raw := values.Get("amount"); raw != "" {
		amount, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return checkoutapi.CallbackResult{}, myerrors.NewInvalidInputErrorf("invalid momo amount %q for order %s", raw, orderID)
		}
	}

	return checkoutapi.CallbackResult{
		TransactionUID: orderID,
		Success:        values.Get("resultCode") == strconv.Itoa(resultCodeSuccess),
		StatusDetails:  fmt.Sprintf("resultCode=%s message=%s", values.Get("resultCode"), values.Get("message")),
		Amount:         amount,
	}, nil
}
