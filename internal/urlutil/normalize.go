package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// MaxCanonicalLen caps the canonical form so it always fits the urls.name column.
const MaxCanonicalLen = 255

var (
	// ErrEmptyURL signals that the input was empty or whitespace-only.
	ErrEmptyURL = errors.New("url is empty")
	// ErrInvalidURL signals that the input is not an absolute public http(s) URL.
	ErrInvalidURL = errors.New("url is not a valid absolute http or https url")
	// ErrURLTooLong signals that the canonical form exceeds MaxCanonicalLen.
	ErrURLTooLong = errors.New("url is too long")
)

// Normalize validates a user-supplied URL and reduces it to the canonical form
// used as the catalog uniqueness key:
//  1. Scheme and host are lowercased.
//  2. Default ports (80 for http, 443 for https) are stripped.
//  3. Query string and fragment are discarded.
//  4. Trailing slashes on the path are removed.
//
// Validation is purely syntactic: no DNS resolution, no reachability check.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	host := u.Hostname()
	if !publicHostname(host) {
		return "", ErrInvalidURL
	}

	// The Host field keeps the port; drop it when it is the scheme default.
	if (u.Scheme == "http" && u.Port() == "80") ||
		(u.Scheme == "https" && u.Port() == "443") {
		u.Host = host
	}

	path := strings.TrimRight(u.Path, "/")

	canonical := u.Scheme + "://" + u.Host + path
	if len(canonical) > MaxCanonicalLen {
		return "", ErrURLTooLong
	}

	return canonical, nil
}

// publicHostname applies the same syntactic bar the registration form expects:
// a dotted hostname with no whitespace and non-empty labels.
func publicHostname(host string) bool {
	if host == "" || !strings.Contains(host, ".") {
		return false
	}
	if strings.ContainsAny(host, " \t") {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" {
			return false
		}
	}
	return true
}
