package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const agmarknetResource = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// Record is a single mandi price observation from the AgMarknet dataset.
type Record struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// Query narrows the record set; empty fields are not sent as filters.
type Query struct {
	Commodity string
	State     string
	District  string
	Market    string
	FromDate  string // DD-MM-YYYY
	ToDate    string // DD-MM-YYYY
}

// AgmarknetClient defines what we need from the data.gov.in price feed.
type AgmarknetClient interface {
	FetchRecords(ctx context.Context, q Query) ([]Record, error)
}

// HTTPClient is an AgmarknetClient backed by the data.gov.in HTTP API.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type agmarknetResponse struct {
	Records []Record `json:"records"`
}

func (c *HTTPClient) FetchRecords(ctx context.Context, q Query) ([]Record, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	base := c.BaseURL
	if base == "" {
		base = agmarknetResource
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("agmarknet: DATA_GOV_API_KEY is not set")
	}

	params := url.Values{}
	params.Set("api-key", c.APIKey)
	params.Set("format", "json")
	params.Set("limit", "100")
	if q.Commodity != "" {
		params.Set("filters[commodity]", q.Commodity)
	}
	if q.State != "" {
		params.Set("filters[state]", q.State)
	}
	if q.District != "" {
		params.Set("filters[district]", q.District)
	}
	if q.Market != "" {
		params.Set("filters[market]", q.Market)
	}
	if q.FromDate != "" {
		params.Set("filters[from_date]", q.FromDate)
	}
	if q.ToDate != "" {
		params.Set("filters[to_date]", q.ToDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agmarknet request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("agmarknet error: status %d body: %s", resp.StatusCode, string(body))
	}

	var data agmarknetResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("agmarknet parse: %w", err)
	}
	return data.Records, nil
}
