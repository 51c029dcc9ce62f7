package adapters

import (
	"fmt"
	"net/url"
	"strings"

	"listing-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter runs a site profile's fallback chains against a loaded page.
// It holds no per-page state and is safe for concurrent use.
type BaseAdapter struct {
	config *types.Config // Configuration settings (timeouts, browser settings, etc.)
	logger types.Logger  // Structured logging interface
}

// NewBaseAdapter creates a new base adapter
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config: config,
		logger: logger,
	}
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractText extracts text from an element using a CSS selector
func (b *BaseAdapter) ExtractText(doc *goquery.Document, selector string) (string, error) {
	element := doc.Find(selector)
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	return strings.TrimSpace(element.First().Text()), nil
}

// ExtractAttribute extracts an attribute value from an element
func (b *BaseAdapter) ExtractAttribute(doc *goquery.Document, selector string, attribute string) (string, error) {
	element := doc.Find(selector)
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}

	value, exists := element.First().Attr(attribute)
	if !exists {
		return "", fmt.Errorf("attribute %s not found on element %s", attribute, selector)
	}

	return value, nil
}

// Extract builds a raw record from doc using profile. Missing elements only move the
// chains to their next rule; every field ends up at least at its default.
func (b *BaseAdapter) Extract(doc *goquery.Document, pageURL string, profile *Profile) *types.RawExtraction {
	record := &types.RawExtraction{
		URL:       pageURL,
		Site:      profile.Name,
		PriceText: types.DefaultPriceText,
	}

	record.Title = collapseSpace(b.resolveField(doc, profile, "title", profile.Title))
	if price := collapseSpace(b.resolveField(doc, profile, "price", profile.Price)); price != "" {
		record.PriceText = price
	}
	record.Description = normalizeNewlines(b.resolveField(doc, profile, "description", profile.Description))

	ogImage, _ := b.ExtractAttribute(doc, ogImageRule.Selector, "content")
	ogImage = absoluteURL(pageURL, strings.TrimSpace(ogImage))

	candidates := b.CollectImageCandidates(doc, pageURL, profile.Images)
	record.Images = ResolveImages(candidates, profile, ogImage)

	b.logger.Debugf("Extracted %s page %s: title=%t price=%s images=%d (of %d candidates)",
		profile.Name, pageURL, record.Title != "", record.PriceText, len(record.Images), len(candidates))
	return record
}

// resolveField evaluates one chain and logs which rule fired
func (b *BaseAdapter) resolveField(doc *goquery.Document, profile *Profile, field string, chain Chain) string {
	value, selector := chain.Resolve(doc)
	if selector == "" {
		b.logger.Debugf("No %s rule matched for %s, using default", field, profile.Name)
		return ""
	}
	b.logger.Debugf("Extracted %s for %s using selector: %s", field, profile.Name, selector)
	return value
}

// CollectImageCandidates returns every listed attribute value of every matching element,
// in document order and made absolute
func (b *BaseAdapter) CollectImageCandidates(doc *goquery.Document, pageURL string, sources []ImageSource) []string {
	var candidates []string
	for _, source := range sources {
		doc.Find(source.Selector).Each(func(i int, s *goquery.Selection) {
			for _, name := range source.Attrs {
				value, ok := s.Attr(name)
				value = strings.TrimSpace(value)
				if !ok || value == "" || strings.HasPrefix(value, "data:") {
					continue
				}
				// Lazy-loading placeholders sit in src; the allowlist drops them later
				candidates = append(candidates, absoluteURL(pageURL, value))
			}
		})
	}
	return candidates
}

// absoluteURL resolves protocol-relative and relative references against the page URL
func absoluteURL(pageURL, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return ref
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeNewlines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
