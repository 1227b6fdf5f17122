package workflow

import "net/url"

// hostOf returns the normalized host of raw if it parses as a URL with a
// host component, or "" otherwise (e.g. a bare file path).
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
