package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
)

// OriginGate admits requests whose Origin header is on the allow-list.
// Originless callers are keyed by their source address instead. An empty
// list admits everyone, and /health always stays reachable.
func OriginGate(allowed []string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		if len(set) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			caller := r.Header.Get("Origin")
			if caller == "" {
				caller = clientAddr(r)
			}
			if _, ok := set[caller]; !ok {
				respondJSON(w, http.StatusForbidden, ErrorResponse{Error: "origin not allowed"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the peer address without the port, as rewritten by
// middleware.RealIP when proxy headers are present.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Recover turns a handler panic into the JSON 500 envelope.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", rec)
					respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprint(rec)})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
