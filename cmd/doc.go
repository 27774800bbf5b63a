// Package cmd defines the CLI commands for the pagemeta executable.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes GET /scrape plus health, metrics and a landing page.
//     Each request performs one page fetch through the Colly-based fetcher, parses the body with
//     goquery, and optionally relays the page's image or favicon through internal/proxy.
//   - Extraction: internal/metadata normalizes the URL, extracts title, Open Graph tags, the
//     itemprop image fallback and the favicon, and resolves references against the page URL.
//     Failures are tagged as network or parse errors.
//   - Configuration & plumbing: Viper populates config from env (PAGEMETA_*, PORT) and an optional
//     file; zap provides structured logging; Prometheus metrics are exported at /metrics.
//   - No state is shared between requests; there is no cache, queue or background work.
//
// Commands:
//   - pagemeta serve [--config file]: run the HTTP server until SIGINT/SIGTERM.
//   - pagemeta scrape <url> [--only title|og_tags]: print the JSON the API would return.
package cmd
