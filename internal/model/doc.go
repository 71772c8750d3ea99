// Package model defines the data structures shared by the scraper.
//
// The central type is Record: the flat set of facts (links, emails, phone
// numbers, social references, metadata, tables, ...) extracted from one page
// or aggregated across a crawl. Renderers only ever see Records in this flat
// shape; the set-shaped accumulator used while crawling lives in the
// aggregate package.
//
// Other types:
//   - Table: one HTML table with its per-page index
//   - MetaValue / Metadata: page metadata where a key may repeat
//   - Platform: known social media platforms
//   - Batch / Outcome: per-URL results of a fan-out run
//   - Capture: one entry of a scheduled capture file
package model
