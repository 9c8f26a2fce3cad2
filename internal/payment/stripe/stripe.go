package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid   = errors.New("stripe config invalid")
	ErrRequestFailed   = errors.New("stripe request failed")
	ErrResponseInvalid = errors.New("stripe response invalid")
)

const (
	defaultAPIBaseURL = "https://api.stripe.com"
	defaultTimeout    = 12 * time.Second
)

// Config Stripe credentials
type Config struct {
	SecretKey      string `json:"secret_key"`
	PublishableKey string `json:"publishable_key"`
	APIBaseURL     string `json:"api_base_url"`
}

// CreateIntentInput card payment intent input
type CreateIntentInput struct {
	OrderID        uint
	OrderNo        string
	Amount         decimal.Decimal
	Currency       string
	CustomerEmail  string
	Installments   int
	CouponCode     string
	DiscountAmount decimal.Decimal
}

// CreateIntentResult card payment intent result
type CreateIntentResult struct {
	ID           string
	ClientSecret string
	Status       string
	Raw          map[string]interface{}
}

// ValidateConfig checks credentials before any request is made
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	base := strings.TrimSpace(cfg.APIBaseURL)
	if base == "" {
		return nil
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateIntent creates a Stripe PaymentIntent for a card charge. Order
// identifiers go into metadata so webhooks can be reconciled later.
func CreateIntent(ctx context.Context, cfg *Config, input CreateIntentInput) (*CreateIntentResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		return nil, fmt.Errorf("%w: order_no is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minorAmount, err := toMinorAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minorAmount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("payment_method_types[]", "card")
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(input.OrderID), 10))
	form.Set("metadata[order_no]", orderNo)
	form.Set("metadata[installments]", strconv.Itoa(input.Installments))
	if code := strings.TrimSpace(input.CouponCode); code != "" {
		form.Set("metadata[coupon_code]", code)
		form.Set("metadata[discount_amount]", input.DiscountAmount.StringFixed(2))
	}
	if email := strings.TrimSpace(input.CustomerEmail); email != "" {
		form.Set("receipt_email", email)
	}

	respBody, statusCode, err := doFormRequest(ctx, cfg, http.MethodPost, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create payment intent status %d", ErrResponseInvalid, statusCode)
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &CreateIntentResult{Raw: raw}
	result.ID = strings.TrimSpace(readString(raw, "id"))
	result.ClientSecret = strings.TrimSpace(readString(raw, "client_secret"))
	result.Status = strings.TrimSpace(readString(raw, "status"))
	if result.ID == "" || result.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing intent id or client secret", ErrResponseInvalid)
	}
	return result, nil
}

func toMinorAmount(amount decimal.Decimal) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	minor := amount.Shift(2).Round(0)
	return minor.IntPart(), nil
}

func doFormRequest(ctx context.Context, cfg *Config, method, path string, form url.Values) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strings.TrimSpace(strconv.FormatInt(int64(typed), 10))
	case int64:
		return strings.TrimSpace(strconv.FormatInt(typed, 10))
	case int:
		return strings.TrimSpace(strconv.Itoa(typed))
	default:
		return ""
	}
}
