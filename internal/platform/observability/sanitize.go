package observability

import "unicode"

// stripControl drops control runes and caps value at limit runes so logged
// request attributes cannot inject structure into log lines.
func stripControl(value string, limit int) string {
	cleaned := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsControl(r) {
			continue
		}
		cleaned = append(cleaned, r)
		if len(cleaned) == limit {
			break
		}
	}
	return string(cleaned)
}

// SanitizeRoute normalises a route pattern for logging.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return stripControl(route, 180)
}

// SanitizeMethod normalises an HTTP method for logging.
func SanitizeMethod(method string) string {
	return stripControl(method, 10)
}

// SanitizeUserID caps user identifiers before they reach the logs.
func SanitizeUserID(uid string) string {
	return stripControl(uid, 64)
}
