package adapters

import (
	"strings"

	"listing-extractor/internal/types"
)

const yahooImageHost = "auctions.c.yimg.jp"

// Yahoo! Auctions ships generated class names such as "Price__value___3kE1w",
// so every rule matches on a stable class prefix rather than the full name.
var yahooAuctionProfile = &Profile{
	Name:     types.SiteYahooAuction,
	Patterns: []string{"auctions.yahoo.co.jp", "auction.yahoo.co.jp"},

	Title: withOpenGraph(Chain{
		textRule("h1"),
	}, ogTitleRule),

	Price: Chain{
		textRule("[class*='Price__value']"),
		textRule("[class*='Price--current'] dd"),
		textRule("[class*='ProductPrice'] [class*='value']"),
		textRule("[class*='Price__buynow']"),
	},

	Description: withOpenGraph(Chain{
		textRule("[class*='ProductExplanation__commentBody']"),
		textRule("[class*='ProductExplanation__body']"),
		textRule("#ProductExplanation"),
	}, ogDescriptionRule),

	Images: []ImageSource{
		{Selector: "img", Attrs: []string{"src", "data-src"}},
	},

	AllowImage: func(u string) bool {
		return strings.Contains(u, yahooImageHost)
	},
	NormalizeImage: stripQuery,
}
