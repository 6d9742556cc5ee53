package webapp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wudcwctw/webapp/component"
	"github.com/wudcwctw/webapp/errors"
	"github.com/wudcwctw/webapp/inject"
	"github.com/wudcwctw/webapp/logger"
	"github.com/wudcwctw/webapp/server"
)

// Builder accumulates webapp configuration through fluent calls, then
// Start executes the startup sequence. A builder is single-use and not
// safe for concurrent configuration.
type Builder struct {
	name      string
	api       string
	app       Application
	hostClass string

	bindAddress string
	port        int
	findPort    bool
	addressSet  bool

	cfg     *server.Config
	modules []inject.Module
	devMode bool
	log     *logger.Logger

	err     error
	started bool
}

// For creates a builder for the named webapp. A nil app means a no-op
// default application with an empty setup.
func For(name string, app Application) *Builder {
	return &Builder{
		name:        name,
		app:         app,
		bindAddress: "0.0.0.0",
	}
}

// ForAPI creates a builder that additionally binds the application
// instance under the given API key in the injection scope.
func ForAPI(name, api string, app Application) *Builder {
	b := For(name, app)
	b.api = api
	return b
}

// At parses a "host:port" bind address. With exactly one colon the port
// must be numeric; with no colon the whole string is the host and the
// port stays ephemeral. Either way port probing is enabled, since the
// caller named an address rather than claiming a specific port. More than
// one colon is rejected as ambiguous.
func (b *Builder) At(bindAddress string) *Builder {
	switch strings.Count(bindAddress, ":") {
	case 0:
		return b.AtAddress(bindAddress, 0, true)
	case 1:
		host, portStr, _ := strings.Cut(bindAddress, ":")
		port, err := strconv.Atoi(portStr)
		if err != nil {
			b.recordErr(errors.InvalidAddress(bindAddress, "port is not numeric"))
			return b
		}
		return b.AtAddress(host, port, true)
	default:
		b.recordErr(errors.InvalidAddress(bindAddress, "more than one colon"))
		return b
	}
}

// AtPort binds the wildcard address on the given port, without probing
// for an alternative when the port is taken.
func (b *Builder) AtPort(port int) *Builder {
	return b.AtAddress("0.0.0.0", port, false)
}

// AtAddress is the fully explicit bind form.
func (b *Builder) AtAddress(address string, port int, findPort bool) *Builder {
	if address == "" {
		b.recordErr(errors.InvalidAddress(address, "empty address"))
		return b
	}
	if port < 0 || port > 65535 {
		b.recordErr(errors.InvalidAddress(
			fmt.Sprintf("%s:%d", address, port), "port out of range"))
		return b
	}
	b.bindAddress = address
	b.port = port
	b.findPort = findPort
	b.addressSet = true
	return b
}

// With attaches an external server configuration (TLS, timeouts,
// tracing). Bind address, port, and port probing still come from the
// builder's At calls when any was made.
func (b *Builder) With(cfg *server.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithModules attaches additional injection modules, applied after the
// application's own bindings.
func (b *Builder) WithModules(modules ...inject.Module) *Builder {
	b.modules = append(b.modules, modules...)
	return b
}

// WithLogger sets the logger used by the builder and everything it
// starts, defaulting to the global logger.
func (b *Builder) WithLogger(log *logger.Logger) *Builder {
	b.log = log
	return b
}

// Host sets the host-class identity label explicitly, bypassing caller
// inference.
func (b *Builder) Host(hostClass string) *Builder {
	b.hostClass = hostClass
	return b
}

// InDevMode enables the dev-mode stop-and-restart handshake. Requires a
// fixed port.
func (b *Builder) InDevMode() *Builder {
	b.devMode = true
	return b
}

// Err returns the first configuration error recorded so far, so callers
// can fail fast without waiting for Start.
func (b *Builder) Err() error { return b.err }

// recordErr keeps the first configuration error; later ones are dropped.
func (b *Builder) recordErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Start executes the startup sequence: resolve identity, run the
// dev-mode handshake, start the server, attach the dispatch filter, build
// the injection scope, and return the running webapp. It either returns a
// fully wired WebApp or fails with nothing left running.
func (b *Builder) Start(ctx context.Context) (*WebApp, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.started {
		return nil, errors.AlreadyStarted(b.name)
	}
	b.started = true

	log := b.log
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	blog := log.WithComponent("webapp")

	app := b.app
	if app == nil {
		app = noopApplication{}
	}

	// Identity: explicit host class, then the application's type, then
	// the nearest caller outside this package.
	hostClass := b.hostClass
	if hostClass == "" {
		if b.app != nil {
			hostClass = fmt.Sprintf("%T", b.app)
		} else if inferred, ok := inferHostClass(); ok {
			hostClass = inferred
		} else {
			hostClass = fmt.Sprintf("%T", b)
			blog.Warn("Cannot infer host class from call stack", logger.Fields(
				"fallback", hostClass,
			))
		}
	}

	cfg := b.effectiveConfig()

	if b.devMode {
		if cfg.Port == 0 {
			return nil, errors.DevModeRequiresFixedPort()
		}
		runStopHandshake(ctx, cfg.Host, cfg.Port, blog)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ServerStartFailure(err)
	}

	srv := server.New(b.name, cfg, log)
	srv.ApplyMiddleware()

	registry := component.NewRegistry(log)
	if err := registry.Register(server.NewComponent(srv)); err != nil {
		return nil, errors.Internal(err)
	}
	if err := registry.StartAll(ctx); err != nil {
		return nil, errors.ServerStartFailure(err)
	}

	dispatcher := NewDispatcher(srv.Root(), log)
	srv.AttachFilter(FilterName, dispatcher)

	scope, err := b.buildScope(app, srv, dispatcher, log)
	if err != nil {
		registry.StopAll(ctx)
		return nil, fmt.Errorf("building injection scope: %w", err)
	}

	srv.RegisterDefaultEndpoints(registry.HealthAll)

	// Retain the dispatch filter through the scope, the same instance
	// that was attached to the server.
	dispatcher, err = inject.Resolve[*Dispatcher](scope, inject.Names.Dispatcher)
	if err != nil {
		registry.StopAll(ctx)
		scope.Close()
		return nil, errors.Internal(err)
	}

	w := &WebApp{
		name:       b.name,
		hostClass:  hostClass,
		server:     srv,
		scope:      scope,
		registry:   registry,
		dispatcher: dispatcher,
		log:        blog,
	}

	if b.devMode {
		dispatcher.SetDevMode(true, func() {
			w.Stop(context.Background())
		})
	}

	blog.Info("Webapp started", logger.Fields(
		logger.FieldWebApp, b.name,
		"host_class", hostClass,
		logger.FieldAddress, srv.Addr(),
		logger.FieldPort, srv.Port(),
		"dev_mode", b.devMode,
	))
	return w, nil
}

// effectiveConfig merges the attached external configuration with the
// builder's bind state. At calls win over the configuration's address
// fields; without any At call the configuration's own address is used.
func (b *Builder) effectiveConfig() server.Config {
	var cfg server.Config
	if b.cfg != nil {
		cfg = *b.cfg
	}
	if b.addressSet || b.cfg == nil {
		cfg.Host = b.bindAddress
		cfg.Port = b.port
		cfg.FindPort = b.findPort
	}
	cfg.ApplyDefaults()
	return cfg
}

// buildScope assembles the injection scope: the application module first,
// then the declared API binding, the bootstrap's own well-known bindings,
// and finally any extra modules.
func (b *Builder) buildScope(app Application, srv *server.Server, dispatcher *Dispatcher, log *logger.Logger) (*inject.Scope, error) {
	appModule := inject.ModuleFunc(func(s *inject.Scope) error {
		if err := s.Bind(inject.Names.Application, app); err != nil {
			return err
		}
		return app.Setup(s, srv.Engine())
	})

	modules := []inject.Module{appModule}
	if b.api != "" {
		modules = append(modules, inject.BindInstance(b.api, app))
	}
	modules = append(modules,
		inject.BindInstance(inject.Names.Dispatcher, dispatcher),
		inject.BindInstance(inject.Names.Server, srv),
		inject.BindInstance(inject.Names.Logger, log),
	)
	modules = append(modules, b.modules...)

	return inject.NewScope(modules...)
}
