package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"listing-extractor/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want types.SiteName
	}{
		{"https://jp.mercari.com/item/m12345678901", types.SiteMercari},
		{"https://JP.MERCARI.COM/item/m1", types.SiteMercari},
		{"https://page.auctions.yahoo.co.jp/jp/auction/x1234567", types.SiteYahooAuction},
		{"https://item.rakuten.co.jp/shop/item-1/", types.SiteRakuten},
		{"https://www.amazon.co.jp/dp/B08N5WRWNW", types.SiteAmazon},
		{"https://amzn.asia/d/abc", types.SiteAmazon},
		{"https://example.com/products/widget", types.SiteGeneric},
		{"", types.SiteGeneric},
		{"not a url at all", types.SiteGeneric},
		// Priority order decides overlapping matches
		{"https://jp.mercari.com/search?keyword=amazon.co.jp", types.SiteMercari},
		{"https://item.rakuten.co.jp/amazon./x", types.SiteRakuten},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
			// Deterministic on repeat
			assert.Equal(t, Classify(tt.url), Classify(tt.url))
		})
	}
}

func TestLookup_EveryClassifiedSiteHasProfile(t *testing.T) {
	for _, name := range SiteNames() {
		p := Lookup(name)
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Title, "site %s must have a title chain", name)
		assert.NotEmpty(t, p.Images, "site %s must have image sources", name)
	}
}

func TestLookup_UnknownNameIsGeneric(t *testing.T) {
	assert.Equal(t, types.SiteGeneric, Lookup("Etsy").Name)
}

func TestSiteNames_GenericLast(t *testing.T) {
	names := SiteNames()

	assert.Equal(t, []types.SiteName{
		types.SiteMercari,
		types.SiteYahooAuction,
		types.SiteRakuten,
		types.SiteAmazon,
		types.SiteGeneric,
	}, names)
}

func TestSiteChainsEndWithOpenGraph(t *testing.T) {
	for _, p := range profiles {
		last := p.Title[len(p.Title)-1]
		assert.Equal(t, ogTitleRule.Selector, last.Selector, "%s title chain", p.Name)

		lastDesc := p.Description[len(p.Description)-1]
		assert.Equal(t, ogDescriptionRule.Selector, lastDesc.Selector, "%s description chain", p.Name)
	}
}
