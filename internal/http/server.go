// Package http exposes the ledger over a JSON API. Handlers only parse
// requests, call the service and translate domain errors to status codes;
// every business rule lives below this layer.
package http

import (
	"net/http"
	"time"

	applog "banco/internal/log"
	"banco/internal/middleware/ratelimit"
	"banco/internal/services"
)

type Server struct {
	http.Server
	svc     *services.LedgerService
	limiter *ratelimit.Limiter
}

// NewServer builds the server with its routes, rate limiting and logging
// middleware. Timeouts are left to the caller, matching how the binary
// configures them. A non-positive rateLimit disables limiting.
func NewServer(addr string, svc *services.LedgerService, logger *applog.Logger, rateLimit int) *Server {
	s := &Server{svc: svc}
	s.Addr = addr

	handler := s.routes()
	if rateLimit > 0 {
		s.limiter = ratelimit.New(rateLimit, time.Minute)
		handler = s.limiter.Middleware(handler)
	}
	s.Handler = applog.Middleware(logger)(handler)
	return s
}

// Close releases the limiter's background goroutine. Shutdown on the
// embedded http.Server does not know about it.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	return s.Server.Close()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /customers", s.handleRegisterCustomer)
	mux.HandleFunc("GET /customers", s.handleListCustomers)

	mux.HandleFunc("POST /accounts", s.handleOpenAccount)
	mux.HandleFunc("GET /accounts", s.handleListAccounts)

	mux.HandleFunc("POST /accounts/{number}/deposit", s.handleDeposit)
	mux.HandleFunc("POST /accounts/{number}/withdraw", s.handleWithdraw)
	mux.HandleFunc("GET /accounts/{number}/statement", s.handleStatement)

	return mux
}
