package adapters

// ResolveImages turns raw candidate URLs into the ordered photo list of a listing:
// the site allowlist drops unrelated assets, each survivor is normalized so cache-busting
// variants collapse, duplicates are removed keeping first-seen order, and when nothing is
// left the og:image URL is used. The result is never nil.
func ResolveImages(candidates []string, profile *Profile, ogImage string) []string {
	var kept []string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if profile.AllowImage != nil && !profile.AllowImage(candidate) {
			continue
		}
		if profile.NormalizeImage != nil {
			candidate = profile.NormalizeImage(candidate)
		}
		kept = append(kept, candidate)
	}

	images := RemoveDuplicateURLs(kept)
	if len(images) > 0 {
		return images
	}

	if ogImage != "" {
		return []string{ogImage}
	}
	return []string{}
}

// RemoveDuplicateURLs removes duplicate URLs from the slice, keeping first occurrences in order
func RemoveDuplicateURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	uniqueURLs := make([]string, 0, len(urls))

	for _, url := range urls {
		if !seen[url] {
			seen[url] = true
			uniqueURLs = append(uniqueURLs, url)
		}
	}

	return uniqueURLs
}
