package checkout

import (
	"context"
	"fmt"

	"github.com/MarcGrol/cartcheckout/lib/myerrors"
	"github.com/MarcGrol/cartcheckout/services/checkoutapi"
)

func (s *Service) ListPaymentResults(c context.Context) ([]checkoutapi.PaymentResult, error) {
	results, err := s.resultStore.Query(c, nil, "ReceivedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing payment results: %s", err))
	}
	return results, nil
}

func (s *Service) GetPendingPayment(c context.Context, transactionUID string) (checkoutapi.PendingPayment, error) {
	payment, found, err := s.paymentStore.Get(c, transactionUID)
	if err != nil {
		return checkoutapi.PendingPayment{}, myerrors.NewInternalError(fmt.Errorf("error fetching pending payment %s: %s", transactionUID, err))
	}
	if !found {
		return checkoutapi.PendingPayment{}, myerrors.NewNotFoundError(fmt.Errorf("pending payment %s not found", transactionUID))
	}
	return payment, nil
}
