package services

import (
	"net"
	"net/http"
	"strings"
)

// NetworkOrigin derives the caller's apparent network address: the first
// entry of the X-Forwarded-For chain if present, else the direct connection
// address. Absence yields the literal "unknown" rather than an error.
func NetworkOrigin(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}
