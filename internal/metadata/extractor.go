package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Extractor fetches a page and extracts its metadata.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	fetcher PageFetcher
	logger  *zap.Logger
}

// NewExtractor builds an Extractor on top of fetcher.
func NewExtractor(fetcher PageFetcher, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{fetcher: fetcher, logger: logger}
}

// Extract normalizes rawURL, fetches it and returns the page metadata.
// Failures are always *Error values: KindNetwork for the fetch and KindParse
// for anything afterwards.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (meta PageMetadata, err error) {
	target := Normalize(rawURL)
	base, err := url.Parse(target)
	if err != nil {
		return PageMetadata{}, NetworkError(fmt.Errorf("invalid url %q: %w", target, err))
	}

	page, err := e.fetcher.FetchPage(ctx, target)
	if err != nil {
		e.logger.Debug("page fetch failed", zap.String("url", target), zap.Error(err))
		var extractErr *Error
		if errors.As(err, &extractErr) {
			return PageMetadata{}, extractErr
		}
		return PageMetadata{}, NetworkError(err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			meta = PageMetadata{}
			err = ParseError(fmt.Errorf("%v", rec))
		}
	}()
	meta, err = Parse(base, bytes.NewReader(page.Body))
	if err != nil {
		e.logger.Debug("page parse failed", zap.String("url", target), zap.Error(err))
		return PageMetadata{}, err
	}
	e.logger.Debug("page metadata extracted",
		zap.String("url", target),
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.Body)),
	)
	return meta, nil
}
