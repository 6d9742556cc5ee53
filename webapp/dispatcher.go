package webapp

import (
	"net/http"
	"sync"

	"github.com/wudcwctw/webapp/logger"
)

// FilterName is the well-known name under which the dispatch filter is
// attached to the server, so hosts and tests can find it.
const FilterName = "inject"

// StopPath is the dev-mode wire contract: a GET here on a running
// instance asks it to shut down.
const StopPath = "/__stop"

// Dispatcher is the dispatch filter placed in front of the server: every
// request flows through it into the scope-wired handlers. In dev mode it
// additionally serves the stop endpoint used by the restart handshake.
type Dispatcher struct {
	root http.Handler
	log  *logger.Logger

	mu      sync.RWMutex
	devMode bool
	stop    func()
}

// NewDispatcher creates a dispatcher delegating to the given root handler.
func NewDispatcher(root http.Handler, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Dispatcher{
		root: root,
		log:  log.WithComponent("dispatcher"),
	}
}

// SetDevMode enables dev-mode behavior. The stop callback is invoked
// asynchronously after a stop request has been answered.
func (d *Dispatcher) SetDevMode(enabled bool, stop func()) {
	d.mu.Lock()
	d.devMode = enabled
	d.stop = stop
	d.mu.Unlock()
}

// DevMode reports whether dev-mode behavior is enabled.
func (d *Dispatcher) DevMode() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.devMode
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	devMode := d.devMode
	stop := d.stop
	d.mu.RUnlock()

	if devMode && r.Method == http.MethodGet && r.URL.Path == StopPath {
		d.log.Info("Stop requested, shutting down")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("stopping\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// Stop asynchronously so this response can complete before the
		// listener goes away.
		if stop != nil {
			go stop()
		}
		return
	}

	d.root.ServeHTTP(w, r)
}
