package checkoutapi

import (
	"net/url"
	"strconv"
	"time"

	"github.com/MarcGrol/cartcheckout/services/cart"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PendingPayment is the audit record of a hosted-gateway checkout, keyed on the transaction uid.
type PendingPayment struct {
	TransactionUID string
	PaymentMethod  PaymentMethod
	CustomerUID    string
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	CreatedAt      time.Time
	LastModified   time.Time
	PaymentDate    time.Time
	Amount         int64
	Description    string `datastore:",noindex"`
	RedirectURL    string `datastore:",noindex"`
	Status         PaymentStatus
	StatusDetails  string
	Items          []cart.CartItem `datastore:",noindex"`
}

// PaymentResult is a confirmed gateway notification as received on the ipn-endpoint.
type PaymentResult struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
	ReceivedAt   time.Time
}

func (r PaymentResult) IsSuccess() bool {
	return r.ResultCode == 0
}

// ToValues exposes the notification the same way a redirect-callback arrives, so one verifier serves both.
func (r PaymentResult) ToValues() url.Values {
	return url.Values{
		"partnerCode":  []string{r.PartnerCode},
		"orderId":      []string{r.OrderID},
		"requestId":    []string{r.RequestID},
		"amount":       []string{strconv.FormatInt(r.Amount, 10)},
		"orderInfo":    []string{r.OrderInfo},
		"orderType":    []string{r.OrderType},
		"transId":      []string{strconv.FormatInt(r.TransID, 10)},
		"resultCode":   []string{strconv.Itoa(r.ResultCode)},
		"message":      []string{r.Message},
		"payType":      []string{r.PayType},
		"responseTime": []string{strconv.FormatInt(r.ResponseTime, 10)},
		"extraData":    []string{r.ExtraData},
		"signature":    []string{r.Signature},
	}
}
