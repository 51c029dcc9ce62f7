package listing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var (
	// ErrNoPrice is returned when the price text holds no number
	ErrNoPrice = errors.New("no price found")

	priceNumber = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
)

// ParsePrice reads the first amount in a scraped price text such as "¥12,800",
// "12,000円（税 0 円）" or "￥２，４８０"
func ParsePrice(priceText string) (float64, error) {
	narrow := width.Narrow.String(priceText)

	match := priceNumber.FindString(narrow)
	if match == "" {
		return 0, fmt.Errorf("%w in %q", ErrNoPrice, priceText)
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", match, err)
	}
	return value, nil
}

// Pricing converts a local price into a resale target price
type Pricing struct {
	Margin       float64 `json:"margin"`
	ExchangeRate float64 `json:"exchange_rate"`
	FeeRate      float64 `json:"fee_rate"`
}

// DefaultPricing returns a pricing with no margin, no fee and a 1:1 rate
func DefaultPricing() Pricing {
	return Pricing{ExchangeRate: 1}
}

// Validate reports whether the pricing can produce a target price
func (p Pricing) Validate() error {
	if p.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive, got %v", p.ExchangeRate)
	}
	if p.FeeRate < 0 || p.FeeRate >= 1 {
		return fmt.Errorf("fee rate must be in [0, 1), got %v", p.FeeRate)
	}
	if p.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %v", p.Margin)
	}
	return nil
}

// TargetPrice computes (local + margin) / rate / (1 - fee), rounded to cents
func (p Pricing) TargetPrice(local float64) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	target := (local + p.Margin) / p.ExchangeRate / (1 - p.FeeRate)
	return math.Round(target*100) / 100, nil
}
