package mercadopago

import (
	"bytes"
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
	ErrConfigInvalid   = errors.New("mercadopago config invalid")
	ErrRequestFailed   = errors.New("mercadopago request failed")
	ErrResponseInvalid = errors.New("mercadopago response invalid")
)

const (
	defaultAPIBaseURL = "https://api.mercadopago.com"
	defaultTimeout    = 12 * time.Second
)

// Config Mercado Pago credentials
type Config struct {
	AccessToken     string `json:"access_token"`
	APIBaseURL      string `json:"api_base_url"`
	NotificationURL string `json:"notification_url"`
}

// CreatePixInput PIX payment input
type CreatePixInput struct {
	OrderID        uint
	OrderNo        string
	Amount         decimal.Decimal
	Description    string
	CustomerEmail  string
	CustomerName   string
	CouponCode     string
	DiscountAmount decimal.Decimal
	ExpiresAt      time.Time
}

// CreatePixResult PIX payment result. QRCode carries the EMV copy-paste
// payload, TicketURL the hosted QR page.
type CreatePixResult struct {
	ID           int64
	Status       string
	TicketURL    string
	QRCode       string
	QRCodeBase64 string
	ExpiresAt    *time.Time
	Raw          map[string]interface{}
}

// ValidateConfig checks credentials before any request is made
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return fmt.Errorf("%w: access_token is required", ErrConfigInvalid)
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

// CreatePixPayment creates a PIX charge. The order number doubles as the
// idempotency key so a retried request never opens a second charge.
func CreatePixPayment(ctx context.Context, cfg *Config, input CreatePixInput) (*CreatePixResult, error) {
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
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrConfigInvalid)
	}

	amount, _ := input.Amount.Round(2).Float64()
	payload := map[string]interface{}{
		"transaction_amount": amount,
		"payment_method_id":  "pix",
		"description":        strings.TrimSpace(input.Description),
		"external_reference": orderNo,
		"payer": map[string]interface{}{
			"email":      email,
			"first_name": strings.TrimSpace(input.CustomerName),
		},
		"metadata": map[string]interface{}{
			"order_id":        strconv.FormatUint(uint64(input.OrderID), 10),
			"order_no":        orderNo,
			"coupon_code":     strings.TrimSpace(input.CouponCode),
			"discount_amount": input.DiscountAmount.StringFixed(2),
		},
	}
	if !input.ExpiresAt.IsZero() {
		payload["date_of_expiration"] = input.ExpiresAt.UTC().Format("2006-01-02T15:04:05.000-07:00")
	}
	if notifyURL := strings.TrimSpace(cfg.NotificationURL); notifyURL != "" {
		payload["notification_url"] = notifyURL
	}

	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, "/v1/payments", payload, "vn-order-"+orderNo)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create pix payment status %d", ErrResponseInvalid, statusCode)
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &CreatePixResult{Raw: raw}
	result.ID = readInt64(raw, "id")
	result.Status = strings.TrimSpace(readString(raw, "status"))
	if result.ID == 0 {
		return nil, fmt.Errorf("%w: missing payment id", ErrResponseInvalid)
	}

	transactionData := readMap(readMap(raw, "point_of_interaction"), "transaction_data")
	result.TicketURL = strings.TrimSpace(readString(transactionData, "ticket_url"))
	result.QRCode = strings.TrimSpace(readString(transactionData, "qr_code"))
	result.QRCodeBase64 = strings.TrimSpace(readString(transactionData, "qr_code_base64"))
	if result.QRCode == "" {
		return nil, fmt.Errorf("%w: missing pix qr code", ErrResponseInvalid)
	}
	if expiration := strings.TrimSpace(readString(raw, "date_of_expiration")); expiration != "" {
		if parsed, parseErr := time.Parse("2006-01-02T15:04:05.000-07:00", expiration); parseErr == nil {
			result.ExpiresAt = &parsed
		}
	}
	return result, nil
}

func doJSONRequest(ctx context.Context, cfg *Config, method, path string, payload map[string]interface{}, idempotencyKey string) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: marshal payload failed", ErrRequestFailed)
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return respBody, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	mapped, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return mapped
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
	default:
		return ""
	}
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil || strings.TrimSpace(key) == "" {
		return 0
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return 0
	}
	switch typed := value.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
