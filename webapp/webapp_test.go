package webapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wudcwctw/webapp/errors"
	"github.com/wudcwctw/webapp/inject"
	"github.com/wudcwctw/webapp/logger"
	"github.com/wudcwctw/webapp/server"
)

// testApp is a minimal application with one route and one binding.
type testApp struct {
	setupCalled bool
}

func (a *testApp) Setup(s *inject.Scope, r gin.IRouter) error {
	a.setupCalled = true
	r.GET("/hello", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})
	return s.Bind("test.value", 42)
}

func startWebApp(t *testing.T, b *Builder) *WebApp {
	t.Helper()
	w, err := b.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { w.Stop(context.Background()) })
	return w
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestStartWithDefaultApplication(t *testing.T) {
	w := startWebApp(t, For("test-default", nil).AtAddress("127.0.0.1", 0, false))

	if w.Port() == 0 {
		t.Fatal("expected a bound port")
	}
	status, _ := getBody(t, fmt.Sprintf("http://127.0.0.1:%d/health", w.Port()))
	if status != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", status)
	}
}

func TestApplicationRoutesServed(t *testing.T) {
	app := &testApp{}
	w := startWebApp(t, For("test-routes", app).AtAddress("127.0.0.1", 0, false))

	if !app.setupCalled {
		t.Fatal("expected Setup to be called")
	}
	status, body := getBody(t, fmt.Sprintf("http://127.0.0.1:%d/hello", w.Port()))
	if status != http.StatusOK || body != "hello" {
		t.Errorf("expected 200 hello, got %d %q", status, body)
	}
}

func TestAPIBindingPreservesIdentity(t *testing.T) {
	app := &testApp{}
	w := startWebApp(t, ForAPI("test-api", "test.API", app).AtAddress("127.0.0.1", 0, false))

	resolved, err := inject.Resolve[*testApp](w.Scope(), "test.API")
	if err != nil {
		t.Fatalf("resolving API binding: %v", err)
	}
	if resolved != app {
		t.Error("expected the API binding to resolve to the exact application instance")
	}
}

func TestWellKnownBindings(t *testing.T) {
	w := startWebApp(t, For("test-bindings", &testApp{}).AtAddress("127.0.0.1", 0, false))

	if _, err := inject.Resolve[Application](w.Scope(), inject.Names.Application); err != nil {
		t.Errorf("application binding: %v", err)
	}
	if _, err := inject.Resolve[*Dispatcher](w.Scope(), inject.Names.Dispatcher); err != nil {
		t.Errorf("dispatcher binding: %v", err)
	}
	if _, err := inject.Resolve[*server.Server](w.Scope(), inject.Names.Server); err != nil {
		t.Errorf("server binding: %v", err)
	}
	if _, err := inject.Resolve[*logger.Logger](w.Scope(), inject.Names.Logger); err != nil {
		t.Errorf("logger binding: %v", err)
	}
	if v, err := inject.Resolve[int](w.Scope(), "test.value"); err != nil || v != 42 {
		t.Errorf("application's own binding: got (%v, %v)", v, err)
	}
}

func TestSecondStartRejected(t *testing.T) {
	b := For("test-twice", nil).AtAddress("127.0.0.1", 0, false)
	startWebApp(t, b)

	if _, err := b.Start(context.Background()); !errors.IsCode(err, errors.ErrCodeAlreadyStarted) {
		t.Fatalf("expected ALREADY_STARTED, got %v", err)
	}
}

func TestStopReleasesPort(t *testing.T) {
	w, err := For("test-release", nil).AtAddress("127.0.0.1", 0, false).Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	port := w.Port()
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	startWebApp(t, For("test-release-2", nil).AtAddress("127.0.0.1", port, false))
}

func TestStopIsIdempotent(t *testing.T) {
	w := startWebApp(t, For("test-idempotent", nil).AtAddress("127.0.0.1", 0, false))

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}

func TestApplicationOverridesDefaultEndpoint(t *testing.T) {
	app := ApplicationFunc(func(s *inject.Scope, r gin.IRouter) error {
		r.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "custom")
		})
		return nil
	})
	w := startWebApp(t, For("test-override", app).AtAddress("127.0.0.1", 0, false))

	status, body := getBody(t, fmt.Sprintf("http://127.0.0.1:%d/health", w.Port()))
	if status != http.StatusOK || body != "custom" {
		t.Errorf("expected the application's /health, got %d %q", status, body)
	}
}

func TestSetupErrorFailsStart(t *testing.T) {
	app := ApplicationFunc(func(s *inject.Scope, r gin.IRouter) error {
		return fmt.Errorf("setup exploded")
	})
	w, err := For("test-setup-err", app).AtAddress("127.0.0.1", 0, false).Start(context.Background())
	if err == nil {
		w.Stop(context.Background())
		t.Fatal("expected Start to fail when Setup errors")
	}
}
