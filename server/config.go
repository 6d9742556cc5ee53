package server

import (
	"fmt"

	"github.com/wudcwctw/webapp/validation"
)

// Config holds HTTP server configuration. A zero Port means an ephemeral
// port chosen by the operating system.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host" validate:"required"`
	Port         int    `yaml:"port" mapstructure:"port" validate:"min=0,max=65535"`
	FindPort     bool   `yaml:"find_port" mapstructure:"find_port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout" validate:"min=0"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout" validate:"min=0"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"min=0"`   // seconds
	TLSCertFile  string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"`
	TLSKeyFile   string `yaml:"tls_key_file" mapstructure:"tls_key_file"`
	Tracing      bool   `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults sets sensible default values for unset fields. The port is
// deliberately left alone: zero means ephemeral.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("server: tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

// TLSEnabled reports whether the server should serve TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
