package checkoutapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
)

// CheckoutRequest is the form posted by the checkout page.
type CheckoutRequest struct {
	PaymentMethod    string `form:"paymentMethod"`
	OrderName        string `form:"orderName"`
	OrderDescription string `form:"orderDescription"`
	Amount           string `form:"amount"`
}

// DeclaredAmount is the amount as shown to the user, "200,000" and "200000" alike.
func (r CheckoutRequest) DeclaredAmount() (int64, bool) {
	digits := strings.NewReplacer(",", "", ".", "", " ", "").Replace(r.Amount)
	if digits == "" {
		return 0, false
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func NewFromRequest(r *http.Request) (CheckoutRequest, error) {
	err := r.ParseForm()
	if err != nil {
		return CheckoutRequest{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (CheckoutRequest, error) {
	request := CheckoutRequest{}
	err := formcodec.NewDecoder().Decode(&request, values)
	if err != nil {
		return request, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err))
	}

	return request, nil
}

func (r CheckoutRequest) ToForm() (url.Values, error) {
	values, err := formcodec.NewEncoder().Encode(r)
	if err != nil {
		return nil, fmt.Errorf("error encoding form: %s", err)
	}

	return values, nil
}
