// Package urlutil provides URL manipulation utilities that preserve original encoding.
package urlutil

import (
	"net/url"
	"strings"
)

// ResolveURL resolves a potentially relative URL against a base URL.
// Uses string manipulation to preserve original URL encoding; the
// resolution rules of url.ResolveReference re-encode characters that
// static hosts serve verbatim.
func ResolveURL(urlStr string, baseURL string) string {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") {
		return urlStr
	}

	base := GetBaseDirectory(baseURL)

	if strings.HasPrefix(urlStr, "/") {
		// Absolute path - combine with scheme+host from base
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return base + strings.TrimPrefix(urlStr, "/")
		}
		return parsed.Scheme + "://" + parsed.Host + urlStr
	}

	// Handle parent directory references
	if strings.HasPrefix(urlStr, "../") {
		result := base
		remaining := urlStr
		for strings.HasPrefix(remaining, "../") {
			remaining = remaining[3:]
			result = strings.TrimSuffix(result, "/")
			if lastSlash := strings.LastIndex(result, "/"); lastSlash > 0 {
				result = result[:lastSlash+1]
			}
		}
		return result + remaining
	}

	return base + strings.TrimPrefix(urlStr, "./")
}

// GetBaseDirectory returns the directory portion of a URL (without the
// filename or query).
func GetBaseDirectory(urlStr string) string {
	if idx := strings.Index(urlStr, "?"); idx > 0 {
		urlStr = urlStr[:idx]
	}
	if lastSlash := strings.LastIndex(urlStr, "/"); lastSlash > 0 {
		return urlStr[:lastSlash+1]
	}
	return urlStr
}

// DirURL treats urlStr as a directory, appending a trailing slash when the
// path has none. The query string is dropped.
func DirURL(urlStr string) string {
	if idx := strings.Index(urlStr, "?"); idx > 0 {
		urlStr = urlStr[:idx]
	}
	if !strings.HasSuffix(urlStr, "/") {
		urlStr += "/"
	}
	return urlStr
}
