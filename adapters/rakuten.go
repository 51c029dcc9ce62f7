package adapters

import (
	"strings"

	"listing-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Shop images live under /cabinet/; logos and banners on the same hosts do not
const rakutenCatalogMarker = "/cabinet/"

var rakutenImageHosts = []string{
	"tshop.r10s.jp",
	"shop.r10s.jp",
	"image.rakuten.co.jp",
	"thumbnail.image.rakuten.co.jp",
}

var rakutenProfile = &Profile{
	Name:     types.SiteRakuten,
	Patterns: []string{"rakuten"},

	Title: withOpenGraph(Chain{
		textRule(".item_name"),
		textRule("h1"),
	}, ogTitleRule),

	Price: Chain{
		attrRule("[data-price]", "data-price"),
		textRule(".price2"),
		textRule(".important"),
		{Selector: "[itemprop='price']", Read: contentOrText},
	},

	Description: withOpenGraph(Chain{
		textRule(".item_desc"),
		textRule("[itemprop='description']"),
	}, ogDescriptionRule),

	Images: []ImageSource{
		{Selector: "img", Attrs: []string{"src", "data-src"}},
	},

	AllowImage: func(u string) bool {
		if !strings.Contains(u, rakutenCatalogMarker) {
			return false
		}
		for _, host := range rakutenImageHosts {
			if strings.Contains(u, host) {
				return true
			}
		}
		return false
	},
	// ?_ex=128x128 selects a thumbnail of the same cabinet file
	NormalizeImage: stripQuery,
}

// contentOrText reads schema.org microdata, which is either a meta tag or visible text
func contentOrText(s *goquery.Selection) string {
	if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return content
	}
	return s.Text()
}
