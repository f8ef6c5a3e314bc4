package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folioview/folioview/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL   = "https://api.twelvedata.com"
	symbolSearchPath = "/symbol_search"
	quotePath        = "/quote"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type symbolSearchResponse struct {
	Data []struct {
		Symbol         string `json:"symbol"`
		InstrumentName string `json:"instrument_name"`
		Exchange       string `json:"exchange"`
		Currency       string `json:"currency"`
		InstrumentType string `json:"instrument_type"`
	} `json:"data"`
	Status string `json:"status"`
}

type quoteResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Datetime      string `json:"datetime"`
	Close         string `json:"close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

func (c *Client) SearchSymbol(ctx context.Context, query string) (*marketdata.SymbolResult, error) {
	params := url.Values{}
	params.Add("symbol", query)
	params.Add("apikey", c.apiKey)

	var searchResp symbolSearchResponse
	if err := c.get(ctx, symbolSearchPath, params, &searchResp); err != nil {
		return nil, err
	}

	if searchResp.Status != "ok" || len(searchResp.Data) == 0 {
		return nil, fmt.Errorf("no instrument found for query: %s", query)
	}

	data := searchResp.Data[0]
	return &marketdata.SymbolResult{
		Symbol:   data.Symbol,
		Name:     data.InstrumentName,
		Type:     data.InstrumentType,
		Currency: data.Currency,
		Exchange: data.Exchange,
	}, nil
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*marketdata.QuoteResult, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("apikey", c.apiKey)

	var quoteResp quoteResponse
	if err := c.get(ctx, quotePath, params, &quoteResp); err != nil {
		return nil, err
	}

	if quoteResp.Status == "error" {
		return nil, fmt.Errorf("quote request failed for symbol %s: %s", symbol, quoteResp.Message)
	}

	if quoteResp.Close == "" {
		return nil, fmt.Errorf("quote request returned no price data for symbol: %s", symbol)
	}

	price, err := decimal.NewFromString(quoteResp.Close)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	// Change fields are optional in the API; absent means zero.
	change := decimal.Zero
	if quoteResp.Change != "" {
		if change, err = decimal.NewFromString(quoteResp.Change); err != nil {
			return nil, fmt.Errorf("failed to parse change: %w", err)
		}
	}
	changePercent := decimal.Zero
	if quoteResp.PercentChange != "" {
		if changePercent, err = decimal.NewFromString(quoteResp.PercentChange); err != nil {
			return nil, fmt.Errorf("failed to parse percent change: %w", err)
		}
	}

	return &marketdata.QuoteResult{
		Symbol:        quoteResp.Symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Currency:      quoteResp.Currency,
		Time:          quoteResp.Datetime,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
