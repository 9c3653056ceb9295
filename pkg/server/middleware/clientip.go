package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/signatories/pkg/editor"
)

// TrustedProxies are the networks whose forwarding headers are believed.
type TrustedProxies []*net.IPNet

// ParseTrustedProxies parses a comma separated list of CIDRs or addresses.
func ParseTrustedProxies(list string) (TrustedProxies, error) {
	var nets TrustedProxies
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			entry = fmt.Sprintf("%s/%d", entry, bits)
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (t TrustedProxies) contains(addr string) bool {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return false
	}
	for _, n := range t {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// RequestIP returns the client address of r. X-Forwarded-For and X-Real-IP
// are only read when the connection comes from a trusted proxy; the client
// is then the last X-Forwarded-For hop that is not itself a trusted proxy.
func (t TrustedProxies) RequestIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !t.contains(remote) {
		return remote
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !t.contains(hop) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return remote
}

// ClientIP stores the request's client address in its context for audit
// events.
func ClientIP(trusted TrustedProxies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := editor.WithClientIP(r.Context(), trusted.RequestIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
