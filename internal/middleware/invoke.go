package middleware

import (
	"crypto/subtle"
	"net/http"
)

// InvokeTokenHeader carries the shared secret handed to the desktop shell.
const InvokeTokenHeader = "X-Invoke-Token"

// InvokeGuard admits only requests that present the per-run invoke token.
type InvokeGuard struct {
	token []byte
}

func NewInvokeGuard(token string) *InvokeGuard {
	return &InvokeGuard{token: []byte(token)}
}

// Require wraps next so it runs only with a matching X-Invoke-Token.
func (g *InvokeGuard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(InvokeTokenHeader)
		if got == "" {
			writeJSONError(w, "invoke token required", http.StatusUnauthorized)
			return
		}
		if len(g.token) == 0 || subtle.ConstantTimeCompare([]byte(got), g.token) != 1 {
			writeJSONError(w, "invalid invoke token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
