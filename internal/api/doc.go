// Package api hosts the HTTP server, middleware, and handlers. Notable routes:
//   - GET /scrape?url=&only= returns page metadata as JSON, or relays the
//     page's image or favicon bytes when only=image / only=favicon.
//   - GET / serves the landing page.
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
package api
