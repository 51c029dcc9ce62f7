package adapters

import (
	"strings"

	"listing-extractor/internal/types"
)

// mercariPhotoPath marks original-resolution listing photos on Mercari's CDN
const mercariPhotoPath = "static.mercdn.net/item/detail/orig/photos/"

var mercariProfile = &Profile{
	Name:     types.SiteMercari,
	Patterns: []string{"mercari"},

	Title: withOpenGraph(Chain{
		textRule("h1"),
	}, ogTitleRule),

	Price: Chain{
		textRule("[data-testid='price']"),
	},

	Description: withOpenGraph(Chain{
		textRule("[data-testid='description']"),
	}, ogDescriptionRule),

	Images: []ImageSource{
		{Selector: "img", Attrs: []string{"src", "data-src"}},
	},

	AllowImage: func(u string) bool {
		return strings.Contains(u, mercariPhotoPath)
	},
	// Photos carry a ?<timestamp> cache buster
	NormalizeImage: stripQuery,
}
