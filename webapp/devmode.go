package webapp

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"syscall"
	"time"

	"github.com/wudcwctw/webapp/logger"
)

const (
	// probeTimeout bounds the stop-handshake GET.
	probeTimeout = 2 * time.Second
	// settleDelay gives a stopped instance time to release its listener
	// socket before the new one binds the same port.
	settleDelay = 100 * time.Millisecond
)

// runStopHandshake asks a previously running instance on host:port to
// stop, so the new instance can bind the same fixed port. Best effort:
// failures are logged, never returned, because startup must proceed
// whether or not an old instance existed.
func runStopHandshake(ctx context.Context, host string, port int, log *logger.Logger) {
	url := fmt.Sprintf("http://%s:%d%s", loopbackHost(host), port, StopPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Warn("Stop handshake skipped", logger.ErrorFields("build request", err))
		return
	}

	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		if stderrors.Is(err, syscall.ECONNREFUSED) {
			log.Info("No previous webapp instance found", logger.Fields(
				"url", url,
			))
			return
		}
		// Something answered the connection but the exchange failed.
		// Treat it like a stopped instance and give the socket time to
		// be released.
		log.Warn("Stop handshake did not complete cleanly", logger.ErrorFields(url, err))
		time.Sleep(settleDelay)
		return
	}
	resp.Body.Close()

	log.Info("Asked previous webapp instance to stop", logger.Fields(
		"url", url,
		"status", resp.StatusCode,
	))
	time.Sleep(settleDelay)
}

// loopbackHost maps wildcard bind addresses to a dialable loopback host.
func loopbackHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		return "127.0.0.1"
	}
	return host
}
