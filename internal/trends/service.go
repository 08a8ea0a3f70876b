package trends

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"
)

// ErrUpstreamUnavailable means the price feed could not be reached or parsed.
var ErrUpstreamUnavailable = errors.New("Market data is temporarily unavailable")

// Service aggregates mandi price records into a daily trend series.
type Service struct {
	Client AgmarknetClient
}

// TrendPoint is one day of averaged prices.
type TrendPoint struct {
	Date       string `json:"date"` // DD-MM-YYYY
	ModalPrice string `json:"modalPrice"`
	MinPrice   string `json:"minPrice"`
	MaxPrice   string `json:"maxPrice"`
	Count      int    `json:"count"`
}

// TrendsInput selects the commodity and window.
type TrendsInput struct {
	Commodity string
	State     string
	District  string
	Market    string
	Days      int
}

// TrendsResult is the market-trends response body.
type TrendsResult struct {
	Commodity   string       `json:"commodity"`
	State       string       `json:"state"`
	District    string       `json:"district"`
	Market      string       `json:"market"`
	PriceChange *string      `json:"priceChange"` // % change oldest→newest modal, nil if < 2 points
	TrendData   []TrendPoint `json:"trendData"`
	RawData     []Record     `json:"rawData"` // sample of the raw records
}

// MarketTrends fetches the last N days of records (default 30), groups them by
// arrival date, and averages modal/min/max per day.
func (s *Service) MarketTrends(ctx context.Context, in TrendsInput) (*TrendsResult, error) {
	days := in.Days
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	q := Query{
		Commodity: in.Commodity,
		State:     in.State,
		District:  in.District,
		Market:    in.Market,
		FromDate:  now.AddDate(0, 0, -days).Format("02-01-2006"),
		ToDate:    now.Format("02-01-2006"),
	}

	records, err := s.Client.FetchRecords(ctx, q)
	if err != nil {
		return nil, ErrUpstreamUnavailable
	}

	type bucket struct {
		modal, min, max float64
		count           int
	}
	byDate := make(map[string]*bucket)
	for _, r := range records {
		b := byDate[r.ArrivalDate]
		if b == nil {
			b = &bucket{}
			byDate[r.ArrivalDate] = b
		}
		b.modal += parsePrice(r.ModalPrice)
		b.min += parsePrice(r.MinPrice)
		b.max += parsePrice(r.MaxPrice)
		b.count++
	}

	trend := make([]TrendPoint, 0, len(byDate))
	for date, b := range byDate {
		n := float64(b.count)
		trend = append(trend, TrendPoint{
			Date:       date,
			ModalPrice: strconv.FormatFloat(b.modal/n, 'f', 2, 64),
			MinPrice:   strconv.FormatFloat(b.min/n, 'f', 2, 64),
			MaxPrice:   strconv.FormatFloat(b.max/n, 'f', 2, 64),
			Count:      b.count,
		})
	}
	sort.Slice(trend, func(i, j int) bool {
		return parseTrendDate(trend[i].Date).Before(parseTrendDate(trend[j].Date))
	})

	var priceChange *string
	if len(trend) > 1 {
		oldest := parsePrice(trend[0].ModalPrice)
		newest := parsePrice(trend[len(trend)-1].ModalPrice)
		if oldest > 0 {
			pc := strconv.FormatFloat((newest-oldest)/oldest*100, 'f', 2, 64)
			priceChange = &pc
		}
	}

	raw := records
	if len(raw) > 10 {
		raw = raw[:10]
	}
	if raw == nil {
		raw = []Record{}
	}

	return &TrendsResult{
		Commodity:   in.Commodity,
		State:       in.State,
		District:    in.District,
		Market:      in.Market,
		PriceChange: priceChange,
		TrendData:   trend,
		RawData:     raw,
	}, nil
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTrendDate(s string) time.Time {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
