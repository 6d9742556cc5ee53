package validation

import (
	"strings"
	"testing"

	"github.com/wudcwctw/webapp/errors"
)

type sample struct {
	Host string `validate:"required"`
	Port int    `validate:"min=0,max=65535"`
	Mode string `validate:"omitempty,oneof=http https"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&sample{Host: "0.0.0.0", Port: 8088, Mode: "http"})
	if err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestStructMissingRequired(t *testing.T) {
	err := Struct(&sample{Port: 8088})
	if err == nil {
		t.Fatal("expected error for missing host")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	if !strings.Contains(err.Error(), "host") {
		t.Errorf("expected field name in message, got %q", err.Error())
	}
}

func TestStructRangeAndOneOf(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"port too high", sample{Host: "h", Port: 70000}, "port"},
		{"bad mode", sample{Host: "h", Port: 1, Mode: "ftp"}, "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %q", tt.want, err.Error())
			}
		})
	}
}
