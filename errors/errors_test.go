package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestInvalidAddress(t *testing.T) {
	err := InvalidAddress("a:b:c", "more than one colon")
	if err.Code != ErrCodeInvalidAddress {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidAddress, err.Code)
	}
	if err.Fatal {
		t.Error("invalid address is recoverable, must not be fatal")
	}
	if !strings.Contains(err.Error(), "a:b:c") {
		t.Errorf("expected address in message, got %q", err.Error())
	}
	if err.Details["address"] != "a:b:c" {
		t.Errorf("expected address detail, got %v", err.Details)
	}
}

func TestDevModeRequiresFixedPort(t *testing.T) {
	err := DevModeRequiresFixedPort()
	if !err.Fatal {
		t.Error("expected fatal error")
	}
	if !IsFatal(err) {
		t.Error("IsFatal should report true")
	}
	if !IsCode(err, ErrCodeDevModeFixedPort) {
		t.Error("IsCode should match DEV_MODE_REQUIRES_FIXED_PORT")
	}
}

func TestServerStartFailureWrapsCause(t *testing.T) {
	cause := stderrors.New("bind: address already in use")
	err := ServerStartFailure(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "address already in use") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
	if !err.Fatal {
		t.Error("server start failure is fatal for the start call")
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := AlreadyStarted("cluster")
	wrapped := fmt.Errorf("start: %w", inner)

	if !IsCode(wrapped, ErrCodeAlreadyStarted) {
		t.Error("IsCode should see through fmt.Errorf wrapping")
	}
	if IsCode(wrapped, ErrCodeServerStart) {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(stderrors.New("plain"), ErrCodeAlreadyStarted) {
		t.Error("IsCode matched a non-WebAppError")
	}
}

func TestWithDetailAndCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(ErrCodeInternal, "oops").WithCause(cause).WithDetail("op", "start")

	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
	if err.Details["op"] != "start" {
		t.Errorf("expected detail op=start, got %v", err.Details)
	}
}

func TestNewFatalDetection(t *testing.T) {
	if !New(ErrCodeServerStart, "x").Fatal {
		t.Error("SERVER_START_FAILURE should be fatal via New")
	}
	if New(ErrCodeInvalidAddress, "x").Fatal {
		t.Error("INVALID_ADDRESS should not be fatal via New")
	}
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotBound("api"))
	we, ok := As(err)
	if !ok {
		t.Fatal("expected As to find a WebAppError")
	}
	if we.Code != ErrCodeNotBound {
		t.Errorf("expected NOT_BOUND, got %s", we.Code)
	}
}
