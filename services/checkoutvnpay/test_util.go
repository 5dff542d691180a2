package checkoutvnpay

import "net/url"

// SignedValues signs callback parameters the way VNPay does, for use in tests and local simulation.
func SignedValues(config Config, values url.Values) url.Values {
	signed := url.Values{}
	for key, value := range values {
		signed[key] = append([]string{}, value...)
	}
	signed.Set(fieldSecureHash, signatureOf(config.HashSecret, signed))
	return signed
}
