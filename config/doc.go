// Package config loads configuration objects from YAML files and the
// environment. Hosts typically use it to populate a server.Config before
// handing it to the webapp builder via With.
package config
