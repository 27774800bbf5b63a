// Package metadata implements the page metadata pipeline: URL normalization,
// a tolerant scan of the fetched HTML for title, Open Graph, itemprop and
// favicon tags, and resolution of relative references against the page URL.
package metadata
