package metadata

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	whatwgURL "github.com/nlnwa/whatwg-url/url"
)

// Parse scans an HTML document for page metadata, resolving image and
// favicon references against base. The underlying HTML5 tokenizer accepts
// malformed markup, so errors here come from reading body or from
// references that cannot be parsed as URLs.
func Parse(base *url.URL, body io.Reader) (PageMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return PageMetadata{}, ParseError(fmt.Errorf("parse html: %w", err))
	}

	var meta PageMetadata
	if title := doc.Find("title").First(); title.Length() > 0 {
		meta.Title = strPtr(title.Text())
	}

	meta.OGTags = OGTags{
		Title:       firstMetaContent(doc, "property", PropertyTitle),
		Description: firstMetaContent(doc, "property", PropertyDescription),
		Image:       firstMetaContent(doc, "property", PropertyImage),
		URL:         firstMetaContent(doc, "property", PropertyURL),
	}

	if meta.OGTags.Image, err = resolveOptional(base, meta.OGTags.Image); err != nil {
		return PageMetadata{}, err
	}
	itempropImage, err := resolveOptional(base, firstMetaContent(doc, "itemprop", "image"))
	if err != nil {
		return PageMetadata{}, err
	}
	if meta.OGTags.Image == nil {
		meta.OGTags.Image = itempropImage
	}

	if meta.Favicon, err = resolveOptional(base, faviconHref(doc)); err != nil {
		return PageMetadata{}, err
	}
	return meta, nil
}

// firstMetaContent returns the content of the first <meta> whose attr equals
// value exactly. Later matches are not consulted when the first one lacks content.
func firstMetaContent(doc *goquery.Document, attr, value string) *string {
	var content *string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); !ok || v != value {
			return true
		}
		if c, ok := s.Attr("content"); ok {
			content = strPtr(c)
		}
		return false
	})
	return content
}

// faviconHref returns the href of the first <link> whose rel mentions "icon"
// in any letter case, covering "icon", "shortcut icon" and "apple-touch-icon".
func faviconHref(doc *goquery.Document) *string {
	var href *string
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, ok := s.Attr("rel")
		if !ok || !strings.Contains(strings.ToLower(rel), "icon") {
			return true
		}
		if h, ok := s.Attr("href"); ok {
			href = strPtr(h)
		}
		return false
	})
	return href
}

// resolveOptional joins ref with base using WHATWG parsing, which keeps stray
// percent signs and similar sloppy markup instead of rejecting the reference.
// A nil or blank ref stays absent so the page URL itself is never reported as
// an image or icon.
func resolveOptional(base *url.URL, ref *string) (*string, error) {
	if ref == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*ref)
	if trimmed == "" {
		return nil, nil
	}
	u, err := whatwgURL.ParseRef(base.String(), trimmed)
	if err != nil {
		return nil, ParseError(fmt.Errorf("resolve reference %q: %w", trimmed, err))
	}
	return strPtr(u.Href(false)), nil
}
