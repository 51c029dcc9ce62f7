package adapters

import (
	"strings"

	"listing-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Rule is one step of a selector fallback chain: a CSS query and the function
// that turns the first matching element into a field value.
type Rule struct {
	Selector string
	Read     func(*goquery.Selection) string
}

// Chain is an ordered list of rules for a single field, most specific first
type Chain []Rule

// Resolve returns the value of the first rule whose selector matches at least one
// element, and that selector. Absence is never an error: an empty selector means
// nothing matched and the caller applies the field default.
func (c Chain) Resolve(doc *goquery.Document) (string, string) {
	for _, rule := range c {
		selection := doc.Find(rule.Selector)
		if selection.Length() == 0 {
			continue
		}
		return strings.TrimSpace(rule.Read(selection.First())), rule.Selector
	}
	return "", ""
}

// ImageSource names elements that carry candidate image URLs and the attributes to
// read from them, in preference order per element.
type ImageSource struct {
	Selector string
	Attrs    []string
}

// Profile is the fixed description of one supported site
type Profile struct {
	Name     types.SiteName
	Patterns []string // lower-case substrings of the page URL

	Title       Chain
	Price       Chain
	Description Chain

	Images []ImageSource

	// AllowImage discards icons, banners and trackers. Nil allows every URL.
	AllowImage func(string) bool
	// NormalizeImage strips host-specific resize and cache-busting suffixes. Nil keeps the URL.
	NormalizeImage func(string) string
}

// text reads the element's rendered text
func text(s *goquery.Selection) string {
	return s.Text()
}

// attr returns a reader for the named attribute
func attr(name string) func(*goquery.Selection) string {
	return func(s *goquery.Selection) string {
		value, _ := s.Attr(name)
		return value
	}
}

func textRule(selector string) Rule {
	return Rule{Selector: selector, Read: text}
}

func attrRule(selector, name string) Rule {
	return Rule{Selector: selector, Read: attr(name)}
}

// Open Graph metadata is the universal last resort for every site
var (
	ogTitleRule       = attrRule("meta[property='og:title']", "content")
	ogDescriptionRule = attrRule("meta[property='og:description']", "content")
	ogImageRule       = attrRule("meta[property='og:image']", "content")
)

// withOpenGraph appends the metadata rule to a site chain
func withOpenGraph(chain Chain, og Rule) Chain {
	out := make(Chain, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, og)
}

// stripQuery drops the query string and fragment of a URL
func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// containsAll reports whether the URL mentions every given marker
func containsAll(rawURL string, markers ...string) bool {
	for _, marker := range markers {
		if !strings.Contains(rawURL, marker) {
			return false
		}
	}
	return true
}
