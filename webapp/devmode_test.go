package webapp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/wudcwctw/webapp/errors"
)

// freePort reserves an available loopback port and releases it.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestDevModeRequiresFixedPort(t *testing.T) {
	w, err := For("dev-ephemeral", nil).
		AtAddress("127.0.0.1", 0, false).
		InDevMode().
		Start(context.Background())
	if w != nil {
		w.Stop(context.Background())
		t.Fatal("expected no webapp for dev mode on an ephemeral port")
	}
	if !errors.IsCode(err, errors.ErrCodeDevModeFixedPort) {
		t.Fatalf("expected DEV_MODE_REQUIRES_FIXED_PORT, got %v", err)
	}
	if !errors.IsFatal(err) {
		t.Error("expected a fatal error")
	}
}

func TestDevModeNoPreviousInstance(t *testing.T) {
	port := freePort(t)

	w := startWebApp(t, For("dev-first-run", nil).
		AtAddress("127.0.0.1", port, false).
		InDevMode())

	if w.Port() != port {
		t.Errorf("expected to bind %d, got %d", port, w.Port())
	}
}

func TestDevModeStopsPreviousInstance(t *testing.T) {
	// Fake old instance: its stop endpoint answers, then closes the
	// whole server so the port frees up.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	old := &http.Server{Handler: mux}
	mux.HandleFunc(StopPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		go old.Close()
	})
	go old.Serve(l)
	t.Cleanup(func() { old.Close() })

	w := startWebApp(t, For("dev-restart", nil).
		AtAddress("127.0.0.1", port, false).
		InDevMode())

	if w.Port() != port {
		t.Errorf("expected to rebind %d after the handshake, got %d", port, w.Port())
	}
}

func TestStopEndpointShutsDownDevModeApp(t *testing.T) {
	port := freePort(t)
	startWebApp(t, For("dev-stop", nil).
		AtAddress("127.0.0.1", port, false).
		InDevMode())

	status, _ := getBody(t, fmt.Sprintf("http://127.0.0.1:%d%s", port, StopPath))
	if status != http.StatusOK {
		t.Fatalf("expected 200 from the stop endpoint, got %d", status)
	}

	// The shutdown is asynchronous; wait for the listener to go away.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected the webapp to shut down after a stop request")
}

func TestStopEndpointNotServedOutsideDevMode(t *testing.T) {
	w := startWebApp(t, For("no-dev", nil).AtAddress("127.0.0.1", 0, false))

	status, _ := getBody(t, fmt.Sprintf("http://127.0.0.1:%d%s", w.Port(), StopPath))
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for the stop path outside dev mode, got %d", status)
	}
}

func TestLoopbackHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"0.0.0.0", "127.0.0.1"},
		{"", "127.0.0.1"},
		{"::", "127.0.0.1"},
		{"192.168.1.5", "192.168.1.5"},
		{"example.com", "example.com"},
	}
	for _, tt := range tests {
		if got := loopbackHost(tt.host); got != tt.want {
			t.Errorf("loopbackHost(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
