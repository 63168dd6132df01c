package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const testSource = "https://example.com/pricewatch.json"

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://archive.example.com/v1", testSource)

		if c.baseURL != "https://archive.example.com/v1" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://archive.example.com/v1")
		}
		if c.sourceURL != testSource {
			t.Errorf("sourceURL = %q, want %q", c.sourceURL, testSource)
		}
		if c.httpClient.Timeout != 20*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 20*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		c := NewClient("https://archive.example.com/v1", testSource,
			WithTimeout(5*time.Second),
			WithRetries(5, 2*time.Second),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		expected := "archive api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code int
			want bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{404, false},
			{200, false},
		}
		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable(%d) = %v, want %v", tt.code, got, tt.want)
			}
		}
	})
}

// TestDoWithRetry tests the retry layer.
func TestDoWithRetry(t *testing.T) {
	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"timestamps": []}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource, WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), "/list-file-versions", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
		if !strings.Contains(string(body), "timestamps") {
			t.Errorf("unexpected body %q", string(body))
		}
	})

	t.Run("does not retry on 4xx", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource, WithRetries(3, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "/list-file-versions", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource, WithRetries(2, 5*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "/list-file-versions", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("error = %q, want max retries exceeded", err)
		}
	})

	t.Run("context cancellation during backoff", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		c := NewClient(server.URL, testSource, WithRetries(5, time.Second))
		_, err := c.doWithRetry(ctx, "/list-file-versions", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestListVersions tests the version-listing endpoint.
func TestListVersions(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/list-file-versions" {
				t.Errorf("path = %q, want /list-file-versions", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("url") != testSource {
				t.Errorf("url = %q, want %q", q.Get("url"), testSource)
			}
			if q.Get("start") != "20240101" || q.Get("end") != "20240110" {
				t.Errorf("range = %q..%q, want 20240101..20240110", q.Get("start"), q.Get("end"))
			}
			w.Write([]byte(`{"timestamps": ["20240102-0915", "20240103-0910"], "versions": 2}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource)
		versions, err := c.ListVersions(context.Background(),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("ListVersions: %v", err)
		}
		if len(versions) != 2 || versions[0] != "20240102-0915" {
			t.Errorf("versions = %v", versions)
		}
	})

	t.Run("error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource)
		_, err := c.ListVersions(context.Background(), time.Now(), time.Now())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestGetSnapshot tests snapshot retrieval.
func TestGetSnapshot(t *testing.T) {
	t.Run("decodes item records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/get-file" {
				t.Errorf("path = %q, want /get-file", r.URL.Path)
			}
			if r.URL.Query().Get("time") != "20240102-0915" {
				t.Errorf("time = %q, want 20240102-0915", r.URL.Query().Get("time"))
			}
			w.Write([]byte(`[
				{
					"code": "p001",
					"brand": {"en": "Brand", "zh-Hant": "品牌"},
					"name": {"en": "Milk 1L", "zh-Hant": "牛奶 1公升"},
					"prices": [{"supermarketCode": "WELLCOME", "price": "$12.5"}],
					"offers": [{"supermarketCode": "WELLCOME", "en": "Buy 2 get 1 free", "zh-Hant": "買二送一"}]
				}
			]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource)
		items, err := c.GetSnapshot(context.Background(), "20240102-0915")
		if err != nil {
			t.Fatalf("GetSnapshot: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
		item := items[0]
		if item.Code != "p001" {
			t.Errorf("Code = %q, want p001", item.Code)
		}
		if item.Brand.Zh != "品牌" {
			t.Errorf("Brand.Zh = %q", item.Brand.Zh)
		}
		if len(item.Prices) != 1 || item.Prices[0].Price != "$12.5" {
			t.Errorf("Prices = %+v", item.Prices)
		}
		if len(item.Offers) != 1 || item.Offers[0].En != "Buy 2 get 1 free" {
			t.Errorf("Offers = %+v", item.Offers)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not": "an array"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testSource)
		if _, err := c.GetSnapshot(context.Background(), "20240102-0915"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
