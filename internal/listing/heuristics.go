package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// DefaultCondition is the condition assigned to every second-hand listing
const DefaultCondition = "Pre-owned"

// knownBrands is checked in order; the first hit wins
var knownBrands = []string{"Nike", "Adidas", "Mizuno", "Puma", "Asics", "New Balance", "Under Armour"}

var cmSize = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*cm`)

// jpToUSOffset maps a Japanese shoe length in centimetres to a US size
const jpToUSOffset = 18

// GuessBrand returns the first known brand mentioned in text, or ""
func GuessBrand(text string) string {
	lower := strings.ToLower(text)
	for _, brand := range knownBrands {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return ""
}

// ConvertSizeJPToUS converts the first "<n> cm" in text to a US size, or returns ""
func ConvertSizeJPToUS(text string) string {
	match := cmSize.FindStringSubmatch(width.Narrow.String(text))
	if match == nil {
		return ""
	}
	cm, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.1f", cm-jpToUSOffset)
}
