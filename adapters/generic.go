package adapters

import "listing-extractor/internal/types"

// genericProfile is the safety net for unrecognized URLs: metadata only,
// price and description stay at their defaults.
var genericProfile = &Profile{
	Name: types.SiteGeneric,

	Title: Chain{ogTitleRule},

	Images: []ImageSource{
		{Selector: "meta[property='og:image']", Attrs: []string{"content"}},
	},
}
