package metadata

import "strings"

// Normalize ensures rawURL carries a scheme, defaulting to https.
// No other validation is performed; malformed URLs fail at fetch time.
func Normalize(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}
