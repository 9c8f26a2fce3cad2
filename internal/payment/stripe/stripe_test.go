package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(&Config{SecretKey: "sk_test_123"}); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
	if err := ValidateConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for nil config, got: %v", err)
	}
	if err := ValidateConfig(&Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for missing secret key, got: %v", err)
	}
	if err := ValidateConfig(&Config{SecretKey: "sk", APIBaseURL: "://bad"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for bad base url, got: %v", err)
	}
}

func TestCreateIntent(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		captured = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method"}`))
	}))
	defer server.Close()

	cfg := &Config{SecretKey: "sk_test_123", APIBaseURL: server.URL}
	result, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderID:        42,
		OrderNo:        "VN-0042",
		Amount:         decimal.RequireFromString("107.08"),
		Currency:       "BRL",
		CustomerEmail:  "buyer@test.local",
		Installments:   6,
		CouponCode:     "DESCONTO10",
		DiscountAmount: decimal.RequireFromString("11.90"),
	})
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if result.ID != "pi_123" || result.ClientSecret != "pi_123_secret" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if got := captured.Get("amount"); got != "10708" {
		t.Fatalf("expected minor amount 10708, got %s", got)
	}
	if got := captured.Get("currency"); got != "brl" {
		t.Fatalf("expected currency brl, got %s", got)
	}
	if got := captured.Get("metadata[order_no]"); got != "VN-0042" {
		t.Fatalf("expected order_no metadata, got %s", got)
	}
	if got := captured.Get("metadata[installments]"); got != "6" {
		t.Fatalf("expected installments metadata, got %s", got)
	}
	if got := captured.Get("metadata[coupon_code]"); got != "DESCONTO10" {
		t.Fatalf("expected coupon metadata, got %s", got)
	}
	if got := captured.Get("receipt_email"); got != "buyer@test.local" {
		t.Fatalf("expected receipt email, got %s", got)
	}
}

func TestCreateIntentRejectsInvalidInput(t *testing.T) {
	cfg := &Config{SecretKey: "sk_test_123"}
	if _, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderNo:  "",
		Amount:   decimal.NewFromInt(10),
		Currency: "BRL",
	}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for missing order no, got: %v", err)
	}
	if _, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderNo:  "VN-1",
		Amount:   decimal.NewFromInt(10),
		Currency: "",
	}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for missing currency, got: %v", err)
	}
	if _, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderNo:  "VN-1",
		Amount:   decimal.Zero,
		Currency: "BRL",
	}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for zero amount, got: %v", err)
	}
}

func TestCreateIntentErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer server.Close()

	cfg := &Config{SecretKey: "sk_test_123", APIBaseURL: server.URL}
	_, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderNo:  "VN-1",
		Amount:   decimal.NewFromInt(10),
		Currency: "BRL",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid on non-2xx, got: %v", err)
	}
}

func TestCreateIntentMissingClientSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123"}`))
	}))
	defer server.Close()

	cfg := &Config{SecretKey: "sk_test_123", APIBaseURL: server.URL}
	_, err := CreateIntent(context.Background(), cfg, CreateIntentInput{
		OrderNo:  "VN-1",
		Amount:   decimal.NewFromInt(10),
		Currency: "BRL",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid for missing client secret, got: %v", err)
	}
}

func TestToMinorAmount(t *testing.T) {
	minor, err := toMinorAmount(decimal.RequireFromString("12.34"))
	if err != nil {
		t.Fatalf("toMinorAmount error: %v", err)
	}
	if minor != 1234 {
		t.Fatalf("expected 1234, got %d", minor)
	}
	if _, err := toMinorAmount(decimal.Zero); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for zero amount, got: %v", err)
	}
}
