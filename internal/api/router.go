package api

import (
	"errors"
	"net/http"

	"github.com/rs/cors"

	"github.com/rpay/deskpet/internal/middleware"
)

// Routes lists the served endpoints for the startup banner.
var Routes = []string{
	"GET  /health                  - Health check",
	"GET  /metrics                 - Invocation metrics",
	"POST /invoke/{command}        - Run a shell command (X-Invoke-Token required)",
	"POST /api/chat                - Pet chat via the configured upstream",
	"POST /api/generate-pet        - Turn a photo into a pet image",
	"POST /api/register            - Create an account",
	"POST /api/login               - Log in",
}

// RouterOptions configures access control around the handler.
type RouterOptions struct {
	Logging *middleware.LoggingMiddleware
	// Auth, when set, guards the pet endpoints and /invoke with session tokens.
	Auth *middleware.AuthMiddleware
	// InvokeToken is the shared secret /invoke callers must present.
	InvokeToken    string
	AllowedOrigins []string
}

// NewRouter wires every route. InvokeToken must not be empty.
func NewRouter(h *Handler, opts RouterOptions) (http.Handler, error) {
	if opts.InvokeToken == "" {
		return nil, errors.New("invoke token is empty")
	}
	if opts.Logging == nil {
		return nil, errors.New("logging middleware is nil")
	}

	protect := func(next http.Handler) http.Handler {
		if opts.Auth == nil {
			return next
		}
		return opts.Auth.Authenticate(next)
	}
	guard := middleware.NewInvokeGuard(opts.InvokeToken)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", h.metrics.Handler())
	mux.Handle("POST /invoke/{command}", guard.Require(protect(http.HandlerFunc(h.HandleInvoke))))
	mux.Handle("POST /api/chat", protect(http.HandlerFunc(h.HandleChat)))
	mux.Handle("POST /api/generate-pet", protect(http.HandlerFunc(h.HandleGeneratePet)))
	mux.HandleFunc("POST /api/register", h.HandleRegister)
	mux.HandleFunc("POST /api/login", h.HandleLogin)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.InvokeTokenHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	return opts.Logging.LogRequest(c.Handler(mux)), nil
}
