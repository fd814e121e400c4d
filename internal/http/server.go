// Package http exposes the expense store as a JSON API.
package http

import (
	"context"
	"net/http"

	"budget/internal/events"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/trace"
	"budget/internal/storage"
)

const appName = "budgetd"

// Options tune server behavior beyond the required dependencies.
type Options struct {
	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int

	// Publisher receives expense lifecycle events. Nil disables publishing.
	Publisher *events.Publisher
}

// Server serves the expense API over a single storage backend.
type Server struct {
	http.Server

	store     storage.Store
	backend   string
	publisher *events.Publisher
	limiter   *ratelimit.Limiter
}

// NewServer wires routes, tracing and rate limiting around the store.
// backendName is reported by the health endpoint.
func NewServer(addr string, store storage.Store, backendName string, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		store:     store,
		backend:   backendName,
		publisher: opts.Publisher,
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("GET /expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /summary/monthly", s.handleMonthlySummary)

	var handler http.Handler = mux
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		handler = s.limiter.Middleware(extractClientIP, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		})(handler)
	}

	tracer := trace.NewMiddleware(extractClientIP)
	s.Handler = tracer.Middleware(handler)

	return s
}

// Shutdown drains in-flight requests and stops background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.Server.Shutdown(ctx)
}
