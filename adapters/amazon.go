package adapters

import (
	"regexp"
	"strings"

	"listing-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// amazonResizeSuffix matches the rendering directive in names like 71abc._AC_SX679_.jpg
var amazonResizeSuffix = regexp.MustCompile(`\._[^/]*_(\.[A-Za-z0-9]+)$`)

var amazonImageHosts = []string{
	"m.media-amazon.com",
	"images-na.ssl-images-amazon.com",
	"images-fe.ssl-images-amazon.com",
}

var amazonProfile = &Profile{
	Name:     types.SiteAmazon,
	Patterns: []string{"amazon.", "amzn."},

	Title: withOpenGraph(Chain{
		textRule("#productTitle"),
	}, ogTitleRule),

	// .a-offscreen holds the screen-reader price, which is never split into whole/fraction spans
	Price: Chain{
		textRule("#corePrice_feature_div .a-price .a-offscreen"),
		textRule("#corePriceDisplay_desktop_feature_div .a-price .a-offscreen"),
		textRule("#apex_desktop .a-price .a-offscreen"),
		textRule("#price_inside_buybox"),
	},

	Description: withOpenGraph(Chain{
		{Selector: "#feature-bullets", Read: featureBullets},
		textRule("#productDescription"),
	}, ogDescriptionRule),

	Images: []ImageSource{
		{Selector: "#landingImage", Attrs: []string{"data-old-hires", "src"}},
		{Selector: "#altImages img", Attrs: []string{"src"}},
		{Selector: "#imageBlock img", Attrs: []string{"src"}},
	},

	AllowImage: func(u string) bool {
		for _, host := range amazonImageHosts {
			if containsAll(u, host, "/images/I/") {
				return true
			}
		}
		return false
	},
	NormalizeImage: normalizeAmazonImage,
}

// featureBullets joins the "About this item" list into one line per bullet
func featureBullets(s *goquery.Selection) string {
	var bullets []string
	s.Find("li").Each(func(i int, li *goquery.Selection) {
		bullet := strings.TrimSpace(li.Text())
		if bullet != "" {
			bullets = append(bullets, bullet)
		}
	})
	if len(bullets) == 0 {
		return s.Text()
	}
	return strings.Join(bullets, "\n")
}

// normalizeAmazonImage recovers the full-resolution asset behind a resized thumbnail
func normalizeAmazonImage(rawURL string) string {
	return amazonResizeSuffix.ReplaceAllString(stripQuery(rawURL), "$1")
}
