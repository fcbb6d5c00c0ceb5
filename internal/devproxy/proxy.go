// Package devproxy runs a local reverse proxy in front of the metadata
// service for development.
package devproxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/mmcdole/youhub/internal/config"
)

// Prefixes are the forwarded path prefixes
var Prefixes = []string{"/api", "/yt", "/yig", "/youtubei"}

const shutdownTimeout = 10 * time.Second

// Server forwards the known prefixes to the upstream API
type Server struct {
	addr      string
	upstream  *url.URL
	transport *http.Transport
	handler   http.Handler
	logger    *slog.Logger
}

// New builds the proxy from cfg
func New(cfg config.ProxyConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	upstream, err := url.Parse("http://" + net.JoinHostPort(cfg.APIHost, strconv.Itoa(cfg.APIPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream: %w", err)
	}

	s := &Server{
		addr:      net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		upstream:  upstream,
		transport: http.DefaultTransport.(*http.Transport).Clone(),
		logger:    logger,
	}
	s.handler = s.routes(cfg.RateLimit)
	return s, nil
}

// Addr returns the listen address
func (s *Server) Addr() string { return s.addr }

// Handler returns the routed proxy handler
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes(perMinute int) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(s.upstream)
	proxy.Transport = s.transport
	base := proxy.Director
	proxy.Director = func(r *http.Request) {
		base(r)
		// present the upstream host, not the proxy
		r.Host = s.upstream.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Warn("upstream request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if perMinute > 0 {
		r.Use(httprate.Limit(perMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			}),
		))
	}
	for _, prefix := range Prefixes {
		r.Handle(prefix, proxy)
		r.Handle(prefix+"/*", proxy)
	}
	return r
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve proxies connections from ln and shuts down gracefully when ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("dev proxy listening", "addr", ln.Addr().String(), "upstream", s.upstream.String())
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("proxy shutdown: %w", err)
		}
		<-errChan
		s.transport.CloseIdleConnections()
		s.logger.Info("dev proxy stopped")
		return nil
	}
}
