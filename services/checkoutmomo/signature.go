package checkoutmomo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// callbackFields are the fields MoMo signs in both redirect and ipn callbacks, in signing order.
var callbackFields = []string{
	"amount", "extraData", "message", "orderId", "orderInfo", "orderType",
	"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
}

func createRawSignature(accessKey string, req createPaymentRequest) string {
	return fmt.Sprintf("accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		accessKey, req.Amount, req.ExtraData, req.IpnURL, req.OrderID, req.OrderInfo, req.PartnerCode, req.RedirectURL, req.RequestID, req.RequestType)
}

// callbackRawSignature joins the raw, unescaped values.
func callbackRawSignature(accessKey string, values url.Values) string {
	sb := strings.Builder{}
	sb.WriteString("accessKey=")
	sb.WriteString(accessKey)
	for _, field := range callbackFields {
		sb.WriteString("&")
		sb.WriteString(field)
		sb.WriteString("=")
		sb.WriteString(values.Get(field))
	}
	return sb.String()
}

func sign(secretKey string, raw string) []byte {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(raw))
	return mac.Sum(nil)
}

func signatureOf(secretKey string, raw string) string {
	return hex.EncodeToString(sign(secretKey, raw))
}

func signatureMatches(secretKey string, raw string, received string) bool {
	receivedBytes, err := hex.DecodeString(strings.ToLower(received))
	if err != nil {
		return false
	}
	return hmac.Equal(sign(secretKey, raw), receivedBytes)
}
