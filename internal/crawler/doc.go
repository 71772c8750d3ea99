// Package crawler drives page extraction over one or more URLs.
//
// Four strategies share the same Fetcher and Pipeline collaborators:
//
//   - Spider walks one site depth-first up to a maximum depth and merges
//     every page into a single aggregate.
//   - FanOut processes independent URLs concurrently with a worker bound and
//     returns one outcome per URL.
//   - Live extracts one page field by field and reports each field as soon
//     as it is ready.
//   - Scheduler captures one page now and then on a fixed interval,
//     appending each capture to a JSON array file.
//
// # Usage
//
//	spider := crawler.NewSpider(client, pipe, crawler.WithMaxDepth(3))
//	record, stats, err := spider.Crawl(ctx, "https://example.com")
package crawler
