package server

import (
	"context"
	"fmt"

	"github.com/wudcwctw/webapp/component"
)

const componentName = "http-server"

var _ component.Component = (*Component)(nil)

// Component adapts Server to the component lifecycle interface so a
// running webapp can own it through a component registry.
type Component struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (c *Component) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// Health reports healthy once the listener is bound.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.server.Port() > 0 {
		return component.Health{
			Name:   componentName,
			Status: component.StatusHealthy,
			Message: fmt.Sprintf("listening on %s", c.server.Addr()),
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "listener not bound",
	}
}
