package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSearchSymbol(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockResponse   string
		expectedSymbol string
		expectError    bool
	}{
		{
			name:  "Success - Stock Found",
			query: "AAPL",
			mockResponse: `{
				"data": [
					{
						"symbol": "AAPL",
						"instrument_name": "Apple Inc",
						"exchange": "NASDAQ",
						"currency": "USD",
						"instrument_type": "Common Stock"
					}
				],
				"status": "ok"
			}`,
			expectedSymbol: "AAPL",
		},
		{
			name:  "Success - ETF Found",
			query: "VWRL",
			mockResponse: `{
				"data": [
					{
						"symbol": "VWRL",
						"instrument_name": "Vanguard FTSE All-World",
						"exchange": "LSE",
						"currency": "USD",
						"instrument_type": "ETF"
					}
				],
				"status": "ok"
			}`,
			expectedSymbol: "VWRL",
		},
		{
			name:         "Not Found",
			query:        "ZZZZZZZZ",
			mockResponse: `{"data": [], "status": "ok"}`,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != symbolSearchPath {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			client := NewClientWithBaseURL("test-key", server.URL)

			result, err := client.SearchSymbol(context.Background(), tt.query)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Symbol != tt.expectedSymbol {
				t.Errorf("expected symbol %s, got %s", tt.expectedSymbol, result.Symbol)
			}
		})
	}
}

func TestGetQuote(t *testing.T) {
	tests := []struct {
		name          string
		symbol        string
		mockResponse  string
		expectedPrice string
		expectError   bool
	}{
		{
			name:   "Success with change fields",
			symbol: "AAPL",
			mockResponse: `{
				"symbol": "AAPL",
				"currency": "USD",
				"datetime": "2024-05-17",
				"close": "160.25",
				"change": "1.75",
				"percent_change": "1.10"
			}`,
			expectedPrice: "160.25",
		},
		{
			name:   "Success without change fields",
			symbol: "VWRL",
			mockResponse: `{
				"symbol": "VWRL",
				"currency": "USD",
				"datetime": "2024-05-17",
				"close": "104.1"
			}`,
			expectedPrice: "104.1",
		},
		{
			name:         "API error status",
			symbol:       "BAD",
			mockResponse: `{"status": "error", "message": "symbol not found"}`,
			expectError:  true,
		},
		{
			name:         "Missing price data",
			symbol:       "EMPTY",
			mockResponse: `{"symbol": "EMPTY", "status": "ok"}`,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != quotePath {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			client := NewClientWithBaseURL("test-key", server.URL)

			quote, err := client.GetQuote(context.Background(), tt.symbol)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			expected, err := decimal.NewFromString(tt.expectedPrice)
			if err != nil {
				t.Fatalf("bad expected price: %v", err)
			}
			if !quote.Price.Equal(expected) {
				t.Errorf("expected price %s, got %s", expected, quote.Price)
			}
		})
	}
}
