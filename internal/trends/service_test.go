package trends

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgmarknet struct {
	records []Record
	err     error
	lastQ   Query
}

func (f *fakeAgmarknet) FetchRecords(ctx context.Context, q Query) ([]Record, error) {
	f.lastQ = q
	return f.records, f.err
}

func TestMarketTrends_AggregatesByDate(t *testing.T) {
	client := &fakeAgmarknet{records: []Record{
		{ArrivalDate: "02-03-2026", ModalPrice: "1200", MinPrice: "1000", MaxPrice: "1400"},
		{ArrivalDate: "01-03-2026", ModalPrice: "1000", MinPrice: "900", MaxPrice: "1100"},
		{ArrivalDate: "02-03-2026", ModalPrice: "1400", MinPrice: "1200", MaxPrice: "1600"},
	}}
	svc := &Service{Client: client}

	result, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	require.NoError(t, err)

	require.Len(t, result.TrendData, 2)
	// Sorted oldest first.
	assert.Equal(t, "01-03-2026", result.TrendData[0].Date)
	assert.Equal(t, "1000.00", result.TrendData[0].ModalPrice)
	assert.Equal(t, 1, result.TrendData[0].Count)

	assert.Equal(t, "02-03-2026", result.TrendData[1].Date)
	assert.Equal(t, "1300.00", result.TrendData[1].ModalPrice)
	assert.Equal(t, "1100.00", result.TrendData[1].MinPrice)
	assert.Equal(t, "1500.00", result.TrendData[1].MaxPrice)
	assert.Equal(t, 2, result.TrendData[1].Count)

	// 1000 -> 1300 is +30%.
	require.NotNil(t, result.PriceChange)
	assert.Equal(t, "30.00", *result.PriceChange)
}

func TestMarketTrends_SinglePointHasNoPriceChange(t *testing.T) {
	client := &fakeAgmarknet{records: []Record{
		{ArrivalDate: "01-03-2026", ModalPrice: "1000", MinPrice: "900", MaxPrice: "1100"},
	}}
	svc := &Service{Client: client}

	result, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	require.NoError(t, err)
	assert.Nil(t, result.PriceChange)
	assert.Len(t, result.TrendData, 1)
}

func TestMarketTrends_DefaultWindowIs30Days(t *testing.T) {
	client := &fakeAgmarknet{}
	svc := &Service{Client: client}

	_, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	require.NoError(t, err)

	from := parseTrendDate(client.lastQ.FromDate)
	to := parseTrendDate(client.lastQ.ToDate)
	assert.Equal(t, 30.0, to.Sub(from).Hours()/24)
	assert.Equal(t, "Onion", client.lastQ.Commodity)
}

func TestMarketTrends_RawDataCappedAtTen(t *testing.T) {
	records := make([]Record, 25)
	for i := range records {
		records[i] = Record{ArrivalDate: "01-03-2026", ModalPrice: "100", MinPrice: "90", MaxPrice: "110"}
	}
	svc := &Service{Client: &fakeAgmarknet{records: records}}

	result, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	require.NoError(t, err)
	assert.Len(t, result.RawData, 10)
}

func TestMarketTrends_UpstreamFailure(t *testing.T) {
	svc := &Service{Client: &fakeAgmarknet{err: errors.New("timeout")}}

	_, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestMarketTrends_UnparsablePricesCountAsZero(t *testing.T) {
	client := &fakeAgmarknet{records: []Record{
		{ArrivalDate: "01-03-2026", ModalPrice: "NR", MinPrice: "", MaxPrice: "abc"},
	}}
	svc := &Service{Client: client}

	result, err := svc.MarketTrends(context.Background(), TrendsInput{Commodity: "Onion"})
	require.NoError(t, err)
	require.Len(t, result.TrendData, 1)
	assert.Equal(t, "0.00", result.TrendData[0].ModalPrice)
}
