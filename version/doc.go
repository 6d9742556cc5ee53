// Package version exposes build version information, populated from
// -ldflags at build time or from the embedded VCS build info.
package version
