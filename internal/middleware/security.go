package middleware

import (
	"net/http"
)

// SecurityHeaders adds security-related HTTP headers to API responses.
// The API only serves JSON and file downloads, so nothing may be embedded
// or executed.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Balances and statements must not sit in shared caches
		w.Header().Set("Cache-Control", "no-store")

		csp := "default-src 'none'; " +
			"frame-ancestors 'none'; " +
			"form-action 'none'; " +
			"base-uri 'none'"
		w.Header().Set("Content-Security-Policy", csp)

		next.ServeHTTP(w, r)
	})
}
