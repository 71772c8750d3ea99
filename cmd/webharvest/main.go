// Package main provides the entry point for the webharvest CLI.
//
// webharvest scrapes web pages for links, email addresses, social profiles,
// authors, phone numbers, images, metadata, documents and tables.
//
// Usage:
//
//	webharvest scrape --url https://example.com
//	webharvest scrape --url https://example.com --recursive --depth 3
//	webharvest scrape --urls https://a.example,https://b.example --parallel
//
// See --help for all available options.
package main

// main is the entry point for webharvest.
func main() {
	Execute()
}
