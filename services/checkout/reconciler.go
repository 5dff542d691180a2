package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/lib/mylog"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
	"github.com/MarcGrol/cartcheckout/services/checkoutevents"
)

// ReconcileCallback applies a signed redirect- or ipn-callback to the pending payment it refers to.
func (s *Service) ReconcileCallback(c context.Context, gateway checkoutapi.Gateway, values url.Values) (checkoutapi.PendingPayment, bool, error) {
	result, err := gateway.ParseCallback(values)
	if err != nil {
		return checkoutapi.PendingPayment{}, false, err
	}

	var payment checkoutapi.PendingPayment
	changed := false
	err = s.paymentStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		payment, changed, err = s.applyResult(c, gateway.Method(), result)
		return err
	})
	if err != nil {
		return checkoutapi.PendingPayment{}, false, err
	}

	return payment, changed, nil
}

// RecordPaymentResult stores a successful MoMo notification and completes its pending payment, if any.
func (s *Service) RecordPaymentResult(c context.Context, gateway checkoutapi.Gateway, result checkoutapi.PaymentResult) error {
	err := gateway.VerifyCallback(result.ToValues())
	if err != nil {
		return err
	}

	if !result.IsSuccess() {
		s.logger.Log(c, result.OrderID, mylog.SeverityWarn, "Payment failed: resultCode %d: %s", result.ResultCode, result.Message)
		return myerrors.NewInvalidInputErrorf("payment failed: resultCode %d: %s", result.ResultCode, result.Message)
	}

	return s.paymentStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		_, _, err := s.applyResult(c, gateway.Method(), checkoutapi.CallbackResult{
			TransactionUID: result.OrderID,
			Success:        true,
			StatusDetails:  fmt.Sprintf("resultCode=%d message=%s transId=%d", result.ResultCode, result.Message, result.TransID),
			Amount:         result.Amount,
		})
		if err != nil {
			if myerrors.GetHTTPStatus(err) != http.StatusNotFound {
				return err
			}
			s.logger.Log(c, result.OrderID, mylog.SeverityInfo, "Payment result without pending payment")
		}

		// stored last: a rejected notification must leave no trace
		err = s.resultStore.Put(c, result.OrderID, result)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing payment result %s: %s", result.OrderID, err))
		}
		return nil
	})
}

// applyResult only moves a payment out of Pending; later callbacks for a settled payment change nothing.
func (s *Service) applyResult(c context.Context, method checkoutapi.PaymentMethod, result checkoutapi.CallbackResult) (checkoutapi.PendingPayment, bool, error) {
	payment, found, err := s.paymentStore.Get(c, result.TransactionUID)
	if err != nil {
		return payment, false, myerrors.NewInternalError(fmt.Errorf("error fetching pending payment %s: %s", result.TransactionUID, err))
	}
	if !found {
		return payment, false, myerrors.NewNotFoundError(fmt.Errorf("pending payment %s not found", result.TransactionUID))
	}
	if payment.PaymentMethod != method {
		return payment, false, myerrors.NewInvalidInputErrorf("payment %s was started with %s, not %s", result.TransactionUID, payment.PaymentMethod, method)
	}

	target := checkoutapi.PaymentStatusFailed
	checkoutStatus := checkoutevents.CheckoutStatusFailed
	if result.Success {
		target = checkoutapi.PaymentStatusCompleted
		checkoutStatus = checkoutevents.CheckoutStatusSuccess
	}

	if payment.Status.IsTerminal() {
		if payment.Status != target {
			s.logger.Log(c, result.TransactionUID, mylog.SeverityWarn, "Ignoring %s callback for payment that is already %s", target, payment.Status)
		}
		return payment, false, nil
	}

	if result.Amount != 0 && result.Amount != payment.Amount {
		return payment, false, myerrors.NewInvalidInputError(fmt.Errorf("%w: callback reports %d, payment is %d", checkoutapi.ErrAmountMismatch, result.Amount, payment.Amount))
	}

	now := s.nower.Now()
	payment.Status = target
	payment.StatusDetails = result.StatusDetails
	payment.LastModified = now
	if result.Success {
		payment.PaymentDate = now
	}

	err = s.paymentStore.Put(c, payment.TransactionUID, payment)
	if err != nil {
		return payment, false, myerrors.NewInternalError(fmt.Errorf("error storing pending payment %s: %s", payment.TransactionUID, err))
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
		CheckoutUID:           payment.TransactionUID,
		ProviderName:          string(method),
		PaymentMethod:         string(method),
		CheckoutStatus:        checkoutStatus,
		CheckoutStatusDetails: result.StatusDetails,
	})
	if err != nil {
		return payment, false, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	s.logger.Log(c, payment.TransactionUID, mylog.SeverityInfo, "Payment %s -> %s", payment.TransactionUID, payment.Status)

	return payment, true, nil
}
