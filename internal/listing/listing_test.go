package listing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listing-extractor/internal/types"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"¥12,800", 12800},
		{"12,000円（税 0 円）", 12000},
		{"￥２，４８０", 2480},
		{"3980", 3980},
		{"$19.99", 19.99},
		{types.DefaultPriceText, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParsePrice(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice_NoNumber(t *testing.T) {
	_, err := ParsePrice("SOLD")
	assert.True(t, errors.Is(err, ErrNoPrice))

	_, err = ParsePrice("")
	assert.Error(t, err)
}

func TestPricing_TargetPrice(t *testing.T) {
	pricing := Pricing{Margin: 2000, ExchangeRate: 150, FeeRate: 0.13}

	got, err := pricing.TargetPrice(12800)
	require.NoError(t, err)
	assert.Equal(t, 113.41, got)

	got, err = DefaultPricing().TargetPrice(42.5)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got)
}

func TestPricing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pricing Pricing
		wantErr bool
	}{
		{"default", DefaultPricing(), false},
		{"zero rate", Pricing{ExchangeRate: 0}, true},
		{"negative rate", Pricing{ExchangeRate: -1}, true},
		{"fee of one", Pricing{ExchangeRate: 1, FeeRate: 1}, true},
		{"negative fee", Pricing{ExchangeRate: 1, FeeRate: -0.1}, true},
		{"negative margin", Pricing{ExchangeRate: 1, Margin: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pricing.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				_, targetErr := tt.pricing.TargetPrice(100)
				assert.Error(t, targetErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGuessBrand(t *testing.T) {
	assert.Equal(t, "Nike", GuessBrand("NIKE Air Max 90"))
	assert.Equal(t, "New Balance", GuessBrand("new balance 990v5 made in USA"))
	assert.Equal(t, "Asics", GuessBrand("asics gel-kayano / ナイキではない"))
	assert.Equal(t, "", GuessBrand("ノーブランド スニーカー"))
}

func TestConvertSizeJPToUS(t *testing.T) {
	assert.Equal(t, "9.0", ConvertSizeJPToUS("サイズ 27cm"))
	assert.Equal(t, "8.5", ConvertSizeJPToUS("26.5 CM box included"))
	assert.Equal(t, "10.0", ConvertSizeJPToUS("２８ｃｍ"))
	assert.Equal(t, "", ConvertSizeJPToUS("size M"))
}

func TestNewRecord(t *testing.T) {
	raw := &types.RawExtraction{
		URL:         "https://jp.mercari.com/item/m123",
		Site:        types.SiteMercari,
		Title:       "Nike Air Max",
		PriceText:   "¥15,000",
		Description: "Worn twice. 27cm",
		Images:      []string{"https://static.mercdn.net/item/detail/orig/photos/m123_1.jpg"},
	}

	record, err := NewRecord(raw, Pricing{ExchangeRate: 150})
	require.NoError(t, err)

	assert.Equal(t, 100.0, record.Price)
	assert.Equal(t, "Nike", record.Brand)
	assert.Equal(t, "9.0", record.USSize)
	assert.Equal(t, DefaultCondition, record.Condition)
	assert.Equal(t, raw.URL, record.SourceURL)
	assert.Equal(t, raw.Images, record.Images)

	raw.Images[0] = "mutated"
	assert.NotEqual(t, "mutated", record.Images[0])
}

func TestNewRecord_BrandIgnoresDescription(t *testing.T) {
	raw := &types.RawExtraction{
		URL:         "https://jp.mercari.com/item/m5",
		Title:       "ランニングシューズ 26cm",
		PriceText:   "¥3,000",
		Description: "Compatible with Nike insoles. Not Adidas.",
	}

	record, err := NewRecord(raw, DefaultPricing())
	require.NoError(t, err)

	assert.Equal(t, "", record.Brand)
	assert.Equal(t, "8.0", record.USSize)
}

func TestNewRecord_Errors(t *testing.T) {
	raw := &types.RawExtraction{URL: "https://example.com/", PriceText: "Sold out"}
	_, err := NewRecord(raw, DefaultPricing())
	assert.True(t, errors.Is(err, ErrNoPrice))

	raw.PriceText = "100"
	_, err = NewRecord(raw, Pricing{})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	records := []*Record{
		{
			Title:       "Widget, large",
			Price:       12.5,
			Description: "line one\nline two",
			Images:      []string{"http://x/a.jpg", "http://x/b.jpg"},
			Condition:   DefaultCondition,
			SourceURL:   "https://example.com/widget",
			Site:        types.SiteGeneric,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"Widget, large", "12.50", "line one\nline two", "http://x/a.jpg|http://x/b.jpg",
		"", "", "Pre-owned", "https://example.com/widget", "Generic",
	}, rows[1])
}
