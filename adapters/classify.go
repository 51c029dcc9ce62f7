package adapters

import (
	"strings"

	"listing-extractor/internal/types"
)

// profiles lists the site-specific profiles in classification priority order.
// Generic is not listed: it is what every unmatched URL falls through to.
var profiles = []*Profile{
	mercariProfile,
	yahooAuctionProfile,
	rakutenProfile,
	amazonProfile,
}

// profilesByName is the dispatch table from classifier output to extraction rules
var profilesByName = func() map[types.SiteName]*Profile {
	table := make(map[types.SiteName]*Profile, len(profiles)+1)
	for _, p := range profiles {
		table[p.Name] = p
	}
	table[genericProfile.Name] = genericProfile
	return table
}()

// Classify maps a URL to a site. It never fails: unknown URLs are Generic.
func Classify(rawURL string) types.SiteName {
	lower := strings.ToLower(rawURL)
	for _, p := range profiles {
		for _, pattern := range p.Patterns {
			if strings.Contains(lower, pattern) {
				return p.Name
			}
		}
	}
	return types.SiteGeneric
}

// Lookup returns the profile for a site name, falling back to Generic for unknown names
func Lookup(name types.SiteName) *Profile {
	if p, ok := profilesByName[name]; ok {
		return p
	}
	return genericProfile
}

// SiteNames returns every supported site, Generic last
func SiteNames() []types.SiteName {
	names := make([]types.SiteName, 0, len(profiles)+1)
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return append(names, genericProfile.Name)
}
