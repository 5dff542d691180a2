package checkoutvnpay

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MarcGrol/cartcheckout/lib/mycontext"
	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/lib/mytime"
	"github.com/MarcGrol/cartcheckout/lib/myuuid"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

const (
	apiVersion       = "2.1.0"
	commandPay       = "pay"
	orderTypeOther   = "other"
	createDateLayout = "20060102150405"
	expiresAfter     = 15 * time.Minute

	responseCodeSuccess = "00"
)

// VNPay interprets all timestamps in Vietnam time, which has no daylight saving.
var vietnamTime = time.FixedZone("ICT", 7*60*60)

type Config struct {
	PaymentURL string
	TmnCode    string
	HashSecret string
	ReturnURL  string
	Locale     string
}

type Gateway struct {
	config Config
	nower  mytime.Nower
	uuider myuuid.UUIDer
	logger mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewGateway(config Config, nower mytime.Nower, uuider myuuid.UUIDer) *Gateway {
	return &Gateway{
		config: config,
		nower:  nower,
		uuider: uuider,
		logger: mylog.New("checkoutvnpay"),
	}
}

func (g *Gateway) Method() checkoutapi.PaymentMethod {
	return checkoutapi.PaymentMethodVnpay
}

// CreatePayment builds the signed url of the VNPay payment page; no remote call is involved.
func (g *Gateway) CreatePayment(c context.Context, summary checkoutapi.OrderSummary) (checkoutapi.Redirect, error) {
	now := g.nower.Now().In(vietnamTime)
	txnRef := strings.ReplaceAll(g.uuider.Create(), "-", "")

	orderInfo := summary.Description
	if orderInfo == "" {
		orderInfo = fmt.Sprintf("Thanh toan don hang %s cho %s", txnRef, summary.PayerName)
	}

	params := url.Values{}
	params.Set("vnp_Version", apiVersion)
	params.Set("vnp_Command", commandPay)
	params.Set("vnp_TmnCode", g.config.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(summary.Amount*100, 10))
	params.Set("vnp_CurrCode", checkoutapi.Currency)
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_OrderInfo", orderInfo)
	params.Set("vnp_OrderType", orderTypeOther)
	params.Set("vnp_Locale", g.config.Locale)
	params.Set("vnp_ReturnUrl", g.config.ReturnURL)
	params.Set("vnp_IpAddr", mycontext.ClientIPFromContext(c))
	params.Set("vnp_CreateDate", now.Format(createDateLayout))
	params.Set("vnp_ExpireDate", now.Add(expiresAfter).Format(createDateLayout))

	query := canonicalQuery(params)
	signature := signatureOf(g.config.HashSecret, params)

	g.logger.Log(c, txnRef, mylog.SeverityInfo, "Created vnpay payment url for amount %d", summary.Amount)

	return checkoutapi.Redirect{
		TransactionUID: txnRef,
		RedirectURL:    fmt.Sprintf("%s?%s&%s=%s", g.config.PaymentURL, query, fieldSecureHash, signature),
	}, nil
}

func (g *Gateway) VerifyCallback(values url.Values) error {
	received := values.Get(fieldSecureHash)
	if received == "" {
		return checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "missing %s", fieldSecureHash)
	}
	if !signatureMatches(g.config.HashSecret, values, received) {
		return checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "vnpay signature mismatch for txn %s", values.Get("vnp_TxnRef"))
	}
	return nil
}

func (g *Gateway) ParseCallback(values url.Values) (checkoutapi.CallbackResult, error) {
	err := g.VerifyCallback(values)
	if err != nil {
		return checkoutapi.CallbackResult{}, err
	}

	txnRef := values.Get("vnp_TxnRef")
	if txnRef == "" {
		return checkoutapi.CallbackResult{}, checkoutapi.NewErrorf(checkoutapi.ErrorKindSignatureInvalid, "missing vnp_TxnRef")
	}

	responseCode := values.Get("vnp_ResponseCode")
	transactionStatus := values.Get("vnp_TransactionStatus")

	amount := int64(0)
	if raw := values.Get("vnp_Amount"); raw != "" {
		minorUnits, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return checkoutapi.CallbackResult{}, myerrors.NewInvalidInputErrorf("invalid vnp_Amount %q for txn %s", raw, txnRef)
		}
		amount = minorUnits / 100
	}

	return checkoutapi.CallbackResult{
		TransactionUID: txnRef,
		Success:        responseCode == responseCodeSuccess && (transactionStatus == "" || transactionStatus == responseCodeSuccess),
		StatusDetails:  fmt.Sprintf("vnp_ResponseCode=%s vnp_TransactionStatus=%s", responseCode, transactionStatus),
		Amount:         amount,
	}, nil
}
