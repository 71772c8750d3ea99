// Package extract pulls typed facts out of one HTML page.
//
// A page is parsed once into a Document; each extractor is an independent
// function over that Document and never modifies it. Extractors keep source
// order and duplicates. Deduplication belongs to the aggregator and the
// normalizer.
package extract
