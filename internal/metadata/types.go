package metadata

import (
	"context"
	"net/http"
)

// Open Graph properties read from the page.
const (
	PropertyTitle       = "og:title"
	PropertyDescription = "og:description"
	PropertyImage       = "og:image"
	PropertyURL         = "og:url"
)

// OGTags holds the Open Graph values of a page. Nil means the tag was absent.
type OGTags struct {
	Title       *string `json:"og:title"`
	Description *string `json:"og:description"`
	Image       *string `json:"og:image"`
	URL         *string `json:"og:url"`
}

// PageMetadata is the extraction result for a single page.
// Image and Favicon, when set, are absolute URLs.
type PageMetadata struct {
	Title   *string `json:"title"`
	OGTags  OGTags  `json:"og_tags"`
	Favicon *string `json:"favicon"`
}

// Page is the raw result of fetching a page.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// PageFetcher retrieves the HTML of a page.
// Implementations return an error for transport failures and non-2xx statuses.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (Page, error)
}

func strPtr(s string) *string {
	return &s
}
