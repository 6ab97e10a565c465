// Package requestmeta resolves request scheme and origin facts used by cookie
// and form-post protection.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// X-Forwarded-Proto is only honoured when TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether the request arrived over HTTPS under policy.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// CrossOrigin reports whether the request carries an Origin or Referer header
// naming a different origin. Requests without either header are not treated
// as cross-origin.
func CrossOrigin(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	raw := strings.TrimSpace(r.Header.Get("Origin"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if raw == "" || raw == "null" {
		return raw == "null"
	}
	return !sameOrigin(raw, r, policy)
}

func sameOrigin(raw string, r *http.Request, policy SchemePolicy) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	originScheme := strings.ToLower(parsed.Scheme)
	requestScheme := scheme(r, policy)
	if originScheme != requestScheme {
		return false
	}
	host, port := hostParts(r.Host)
	if host == "" {
		return false
	}
	if port == "" {
		port = defaultPort(requestScheme)
	}
	originPort := parsed.Port()
	if originPort == "" {
		originPort = defaultPort(originScheme)
	}
	return strings.EqualFold(parsed.Hostname(), host) && originPort == port
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.URL != nil {
		switch s := strings.ToLower(r.URL.Scheme); s {
		case "http", "https":
			return s
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func hostParts(rawHost string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(rawHost))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}
