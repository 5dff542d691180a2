package myconfig

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CARTCHECKOUT_"

type Config struct {
	HTTP struct {
		Port    string `koanf:"port"`
		BaseURL string `koanf:"base_url"`
	} `koanf:"http"`

	Momo struct {
		Endpoint    string        `koanf:"endpoint"`
		PartnerCode string        `koanf:"partner_code"`
		AccessKey   string        `koanf:"access_key"`
		SecretKey   string        `koanf:"secret_key"`
		RedirectURL string        `koanf:"redirect_url"`
		IpnURL      string        `koanf:"ipn_url"`
		Timeout     time.Duration `koanf:"timeout"`
	} `koanf:"momo"`

	Vnpay struct {
		PaymentURL string `koanf:"payment_url"`
		TmnCode    string `koanf:"tmn_code"`
		HashSecret string `koanf:"hash_secret"`
		ReturnURL  string `koanf:"return_url"`
		Locale     string `koanf:"locale"`
	} `koanf:"vnpay"`
}

func defaults() map[string]any {
	return map[string]any{
		"http.port":         "8080",
		"http.base_url":     "http://localhost:8080",
		"momo.endpoint":     "https://test-payment.momo.vn/v2/gateway/api/create",
		"momo.timeout":      "5s",
		"vnpay.payment_url": "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		"vnpay.locale":      "vn",
	}
}

// Load reads the optional yaml file at path and overlays environment variables,
// e.g. CARTCHECKOUT_VNPAY__HASH_SECRET sets vnpay.hash_secret.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	// appengine and cloudrun dictate the port
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Set("http.port", port); err != nil {
			return Config{}, fmt.Errorf("port: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.deriveCallbackURLs()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// deriveCallbackURLs points unset gateway callbacks at our own endpoints.
func (c *Config) deriveCallbackURLs() {
	baseURL := strings.TrimSuffix(c.HTTP.BaseURL, "/")
	if c.Momo.RedirectURL == "" {
		c.Momo.RedirectURL = baseURL + "/checkout/momo/return"
	}
	if c.Momo.IpnURL == "" {
		c.Momo.IpnURL = baseURL + "/checkout/momo/ipn"
	}
	if c.Vnpay.ReturnURL == "" {
		c.Vnpay.ReturnURL = baseURL + "/checkout/vnpay/return"
	}
}

func (c Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port required")
	}
	if c.Momo.PartnerCode == "" || c.Momo.AccessKey == "" || c.Momo.SecretKey == "" {
		return fmt.Errorf("momo.partner_code, momo.access_key and momo.secret_key required")
	}
	if c.Vnpay.TmnCode == "" || c.Vnpay.HashSecret == "" {
		return fmt.Errorf("vnpay.tmn_code and vnpay.hash_secret required")
	}
	return nil
}
