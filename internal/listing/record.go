package listing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"listing-extractor/internal/types"
)

// Record is a resale-ready listing derived from a raw extraction
type Record struct {
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	Images      []string       `json:"images"`
	Brand       string         `json:"brand"`
	USSize      string         `json:"us_size"`
	Condition   string         `json:"condition"`
	SourceURL   string         `json:"source_url"`
	Site        types.SiteName `json:"site"`
}

var csvHeader = []string{"title", "price", "description", "images", "brand", "us_size", "condition", "source_url", "site"}

// NewRecord prices raw and fills the brand and size guesses. The brand comes from
// the title alone. An unparseable price is an error; callers decide whether to
// skip the listing.
func NewRecord(raw *types.RawExtraction, pricing Pricing) (*Record, error) {
	local, err := ParsePrice(raw.PriceText)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", raw.URL, err)
	}

	price, err := pricing.TargetPrice(local)
	if err != nil {
		return nil, err
	}

	images := make([]string, len(raw.Images))
	copy(images, raw.Images)

	return &Record{
		Title:       raw.Title,
		Price:       price,
		Description: raw.Description,
		Images:      images,
		Brand:       GuessBrand(raw.Title),
		USSize:      ConvertSizeJPToUS(raw.Description + " " + raw.Title),
		Condition:   DefaultCondition,
		SourceURL:   raw.URL,
		Site:        raw.Site,
	}, nil
}

// WriteCSV writes a header row and one row per record
func WriteCSV(w io.Writer, records []*Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Title,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			r.Description,
			strings.Join(r.Images, "|"),
			r.Brand,
			r.USSize,
			r.Condition,
			r.SourceURL,
			string(r.Site),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.SourceURL, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
