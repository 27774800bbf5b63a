package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeFAU/pagemeta/internal/metadata"
	"github.com/JakeFAU/pagemeta/internal/metrics"
)

// Values accepted by the "only" query parameter.
const (
	onlyTitle   = "title"
	onlyOGTags  = "og_tags"
	onlyImage   = "image"
	onlyFavicon = "favicon"
)

const (
	msgMissingURL      = "Please provide a URL"
	msgInvalidOnly     = `Invalid "only" parameter`
	msgImageNotFound   = "Image not found"
	msgFaviconNotFound = "Favicon not found"
	msgResourceError   = "Request error while fetching resource: "
)

func validOnly(only string) bool {
	switch only {
	case "", onlyTitle, onlyOGTags, onlyImage, onlyFavicon:
		return true
	default:
		return false
	}
}

// scrape handles GET /scrape?url=&only=.
func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawURL := query.Get("url")
	only := query.Get("only")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, msgMissingURL)
		return
	}
	// Rejected before fetching, so a bad "only" is a 400 even when the page is unreachable.
	if !validOnly(only) {
		writeError(w, http.StatusBadRequest, msgInvalidOnly)
		return
	}

	logger := s.requestLogger(r).With(zap.String("url", rawURL))
	meta, err := s.extractor.Extract(r.Context(), rawURL)
	if err != nil {
		metrics.ObserveExtraction(extractionResult(err))
		logger.Warn("extraction failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ObserveExtraction(metrics.ResultOK)

	switch only {
	case onlyTitle:
		writeJSON(w, http.StatusOK, map[string]*string{"title": meta.Title})
	case onlyOGTags:
		writeJSON(w, http.StatusOK, map[string]metadata.OGTags{"og_tags": meta.OGTags})
	case onlyImage:
		s.relay(w, r, logger, onlyImage, meta.OGTags.Image, msgImageNotFound)
	case onlyFavicon:
		s.relay(w, r, logger, onlyFavicon, meta.Favicon, msgFaviconNotFound)
	default:
		writeJSON(w, http.StatusOK, meta)
	}
}

// relay streams the resource at target back to the client. A nil target
// means the page had no such resource and yields 404.
func (s *Server) relay(
	w http.ResponseWriter,
	r *http.Request,
	logger *zap.Logger,
	resource string,
	target *string,
	notFound string,
) {
	if target == nil {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	res, err := s.resources.Fetch(r.Context(), *target)
	if err != nil {
		logger.Warn("resource fetch failed", zap.String("resource", resource), zap.String("target", *target), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgResourceError+failureMessage(err))
		return
	}
	n, err := res.Relay(w)
	metrics.ObserveProxiedBytes(resource, n)
	if err != nil {
		// Headers are already sent; the client sees a truncated body.
		logger.Warn("resource relay interrupted", zap.String("resource", resource), zap.Int64("bytes", n), zap.Error(err))
	}
}

func extractionResult(err error) string {
	if metadata.IsNetwork(err) {
		return metrics.ResultNetworkError
	}
	return metrics.ResultParseError
}

// failureMessage strips the kind prefix from extraction errors.
func failureMessage(err error) string {
	var extractErr *metadata.Error
	if errors.As(err, &extractErr) {
		return extractErr.Message()
	}
	return err.Error()
}
