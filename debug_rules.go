package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"listing-extractor/adapters"
	"listing-extractor/internal/types"
	"listing-extractor/utils"
)

// Prints every fallback rule of the page's site profile with its match count,
// marking the rule that decides each field.
//
//	go run debug_rules.go <url> [saved-page.html]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_rules <url> [saved-page.html]")
	}
	pageURL := os.Args[1]

	config := types.LoadConfig()
	logger := utils.NewLogger(true)

	var html string
	if len(os.Args) > 2 {
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to read saved page: %v", err)
		}
		html = string(data)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		rendered, err := fetchRendered(ctx, utils.NewBrowserClient(config, logger), pageURL)
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		html = rendered
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Fatalf("Failed to parse HTML: %v", err)
	}

	profile := adapters.Lookup(adapters.Classify(pageURL))
	fmt.Printf("=== %s (%s) ===\n", pageURL, profile.Name)

	printChain(doc, "title", profile.Title)
	printChain(doc, "price", profile.Price)
	printChain(doc, "description", profile.Description)

	adapter := adapters.NewBaseAdapter(config, logger)
	candidates := adapter.CollectImageCandidates(doc, pageURL, profile.Images)
	record := adapter.Extract(doc, pageURL, profile)

	fmt.Printf("\n[images] %d candidates, %d kept\n", len(candidates), len(record.Images))
	for i, img := range record.Images {
		fmt.Printf("  %d: %s\n", i+1, img)
	}
}

// fetchRendered returns the settled DOM of pageURL. The session is released
// before any error reaches the caller.
func fetchRendered(ctx context.Context, provider types.SessionProvider, pageURL string) (string, error) {
	session, err := provider.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Release()

	if err := session.Navigate(pageURL); err != nil {
		if !errors.Is(err, types.ErrNavigationTimeout) {
			return "", fmt.Errorf("failed to navigate: %w", err)
		}
		fmt.Printf("navigation: %v\n", err)
	}
	if err := session.Settle(); err != nil {
		return "", fmt.Errorf("failed to settle page: %w", err)
	}

	html, err := session.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}
	return html, nil
}

func printChain(doc *goquery.Document, field string, chain adapters.Chain) {
	value, winner := chain.Resolve(doc)

	fmt.Printf("\n[%s]\n", field)
	for _, rule := range chain {
		marker := " "
		if rule.Selector == winner {
			marker = "*"
		}
		fmt.Printf(" %s %-70s matches=%d\n", marker, rule.Selector, doc.Find(rule.Selector).Length())
	}

	if winner == "" {
		fmt.Println("  -> no rule matched, default applies")
		return
	}
	if runes := []rune(value); len(runes) > 120 {
		value = string(runes[:120]) + "..."
	}
	fmt.Printf("  -> %q\n", value)
}
