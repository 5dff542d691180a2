package checkoutmomo

import "github.com/MarcGrol/cartcheckout/services/checkoutapi"

// SignedResult signs a notification the way MoMo does, for use in tests and local simulation.
func SignedResult(config Config, result checkoutapi.PaymentResult) checkoutapi.PaymentResult {
	result.Signature = signatureOf(config.SecretKey, callbackRawSignature(config.AccessKey, result.ToValues()))
	return result
}
