package webapp

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/wudcwctw/webapp/component"
	"github.com/wudcwctw/webapp/inject"
	"github.com/wudcwctw/webapp/logger"
	"github.com/wudcwctw/webapp/server"
)

// Application is the user-supplied webapp instance. Setup binds the
// application's own dependencies into the scope and registers its routes.
type Application interface {
	Setup(s *inject.Scope, r gin.IRouter) error
}

// ApplicationFunc adapts a function to the Application interface.
type ApplicationFunc func(s *inject.Scope, r gin.IRouter) error

func (f ApplicationFunc) Setup(s *inject.Scope, r gin.IRouter) error { return f(s, r) }

// noopApplication is the default when no application instance is supplied.
type noopApplication struct{}

func (noopApplication) Setup(s *inject.Scope, r gin.IRouter) error { return nil }

// WebApp is a running webapp: it owns the HTTP server it started and the
// injection scope it built, and is torn down only by Stop.
type WebApp struct {
	name       string
	hostClass  string
	server     *server.Server
	scope      *inject.Scope
	registry   *component.Registry
	dispatcher *Dispatcher
	log        *logger.Logger

	stopOnce sync.Once
	stopErr  error
}

// Name returns the webapp name given to the builder.
func (w *WebApp) Name() string { return w.name }

// HostClass returns the identity label resolved at startup, either the
// application's type or the inferred caller.
func (w *WebApp) HostClass() string { return w.hostClass }

// Port returns the actual bound port, which matters when an ephemeral
// port was requested.
func (w *WebApp) Port() int { return w.server.Port() }

// Addr returns the bound listen address.
func (w *WebApp) Addr() string { return w.server.Addr() }

// Scope returns the injection scope built at startup.
func (w *WebApp) Scope() *inject.Scope { return w.scope }

// Dispatcher returns the dispatch filter retained at startup, mostly for
// explicit teardown in tests.
func (w *WebApp) Dispatcher() *Dispatcher { return w.dispatcher }

// Stop shuts down the webapp: components in reverse start order, then the
// scope's closable bindings. Safe to call more than once.
func (w *WebApp) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		w.log.Info("Stopping webapp", logger.Fields(
			logger.FieldWebApp, w.name,
		))
		w.stopErr = w.registry.StopAll(ctx)
		if err := w.scope.Close(); err != nil && w.stopErr == nil {
			w.stopErr = err
		}
	})
	return w.stopErr
}
