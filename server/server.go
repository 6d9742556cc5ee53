package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wudcwctw/webapp/logger"
	"github.com/wudcwctw/webapp/server/endpoint"
	"github.com/wudcwctw/webapp/server/middleware"
)

// maxPortProbes bounds how many successive ports Start tries when FindPort
// is enabled and the configured port is taken.
const maxPortProbes = 100

// Server is an embedded HTTP server backed by Gin, with optional extra
// http.Handler mounts on the same port and a pluggable dispatch filter in
// front of everything.
type Server struct {
	name       string
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	config     Config
	log        *logger.Logger

	mu       sync.RWMutex
	filter   http.Handler
	listener net.Listener
}

// New creates a new Server for the named webapp. The Gin engine is created
// bare — call ApplyMiddleware to install the standard stack.
func New(name string, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		name:   name,
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	s.httpServer = &http.Server{
		Handler:      h2c.NewHandler(http.HandlerFunc(s.serveHTTP), h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return s
}

// serveHTTP routes through the attached filter when one exists, otherwise
// straight to the root mux.
func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	filter := s.filter
	s.mu.RUnlock()

	if filter != nil {
		filter.ServeHTTP(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Root returns the root handler below the filter, for filters that
// delegate after their own processing.
func (s *Server) Root() http.Handler {
	return s.mux
}

// Handle mounts an http.Handler at the given pattern on the root mux,
// alongside the Gin engine.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{
		"pattern": pattern,
	})
}

// AttachFilter places a handler in front of every request. The name is
// only used for logging; the well-known dispatch filter uses a fixed one.
func (s *Server) AttachFilter(name string, filter http.Handler) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	s.log.Debug("Filter attached", map[string]interface{}{
		"filter": name,
	})
}

// Start binds the listener and begins serving. It returns once the bind
// succeeded so the caller knows the port is ready; serving continues in a
// goroutine. With FindPort enabled, successive ports are probed when the
// configured one is in use.
func (s *Server) Start(ctx context.Context) error {
	listener, err := s.bind()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		var serveErr error
		if s.config.TLSEnabled() {
			serveErr = s.httpServer.ServeTLS(listener, s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			serveErr = s.httpServer.Serve(listener)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", serveErr))
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"webapp": s.name,
		"addr":   listener.Addr().String(),
	})
	return nil
}

// bind opens the listener, probing successive ports when FindPort is set.
func (s *Server) bind() (net.Listener, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !s.config.FindPort || s.config.Port == 0 || !errors.Is(err, syscall.EADDRINUSE) {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}

	for port := s.config.Port + 1; port < s.config.Port+maxPortProbes && port <= 65535; port++ {
		probe := fmt.Sprintf("%s:%d", s.config.Host, port)
		listener, probeErr := net.Listen("tcp", probe)
		if probeErr == nil {
			s.log.Info("Configured port in use, found free port", map[string]interface{}{
				"configured": s.config.Port,
				"port":       port,
			})
			return listener, nil
		}
		if !errors.Is(probeErr, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("bind %s: %w", probe, probeErr)
		}
	}
	return nil, fmt.Errorf("bind %s: %w", addr, err)
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server", map[string]interface{}{
		"webapp": s.name,
	})

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Shutdown only closes listeners the serve goroutine has handed to
	// http.Server; if Stop lands before Serve ran, ours is not among
	// them, so close it directly to release the port.
	s.mu.RLock()
	listener := s.listener
	s.mu.RUnlock()
	if listener != nil {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("close listener: %w", err)
		}
	}
	return nil
}

// Port returns the actual bound port, which differs from the configured
// one for ephemeral and found ports. Returns 0 before Start.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return 0
	}
	if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ApplyMiddleware installs the standard middleware stack on the Gin
// engine: recovery, request-ID, request logging, and tracing when enabled.
func (s *Server) ApplyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.RequestLogger(s.log))
	if s.config.Tracing {
		s.engine.Use(middleware.Tracing(s.name))
	}
}

// RegisterDefaultEndpoints registers the standard /health, /info, and
// /metrics endpoints. Paths the application already registered are left
// alone so defaults never shadow explicit routes.
func (s *Server) RegisterDefaultEndpoints(checker endpoint.HealthChecker) {
	taken := make(map[string]bool)
	for _, route := range s.engine.Routes() {
		taken[route.Path] = true
	}

	if !taken["/health"] {
		s.engine.GET("/health", endpoint.Health(s.name, checker))
	}
	if !taken["/info"] {
		s.engine.GET("/info", endpoint.Info(s.name))
	}
	if !taken["/metrics"] {
		s.engine.GET("/metrics", endpoint.Metrics())
	}
}
