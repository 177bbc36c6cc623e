package xsrfclient

import "strings"

// CompleteProtocol prefixes url with http:// unless it already names a scheme.
func CompleteProtocol(url string) string {
	if strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") {
		return url
	}
	return "http://" + url
}
