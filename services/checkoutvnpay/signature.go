package checkoutvnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	fieldSecureHash     = "vnp_SecureHash"
	fieldSecureHashType = "vnp_SecureHashType"
	fieldPrefix         = "vnp_"
)

// canonicalQuery sorts the vnp_ params by key and escapes both key and value.
// The signature fields themselves and empty values never take part.
func canonicalQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if !strings.HasPrefix(key, fieldPrefix) || key == fieldSecureHash || key == fieldSecureHashType {
			continue
		}
		if values.Get(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb := strings.Builder{}
	for idx, key := range keys {
		if idx > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(values.Get(key)))
	}
	return sb.String()
}

func sign(secret string, data string) []byte {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

// signatureOf returns the lowercase hex HMAC-SHA512 over the canonical query.
func signatureOf(secret string, values url.Values) string {
	return hex.EncodeToString(sign(secret, canonicalQuery(values)))
}

// signatureMatches accepts hex in either case and compares in constant time.
func signatureMatches(secret string, values url.Values, received string) bool {
	receivedBytes, err := hex.DecodeString(strings.ToLower(received))
	if err != nil {
		return false
	}
	return hmac.Equal(sign(secret, canonicalQuery(values)), receivedBytes)
}
