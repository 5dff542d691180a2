package myhttp

import (
	"fmt"
	"net/http"
	"net/url"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// AddQueryParams returns orgURL with the given params set, keeping any existing ones.
func AddQueryParams(orgURL string, params map[string]string) (string, error) {
	u, err := url.Parse(orgURL)
	if err != nil {
		return "", fmt.Errorf("error parsing url %s: %s", orgURL, err)
	}
	query := u.Query()
	for k, v := range params {
		if v != "" {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
