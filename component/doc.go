// Package component defines the lifecycle interface and registry used to
// manage the infrastructure owned by a running webapp. Components start in
// registration order and stop in reverse.
package component
