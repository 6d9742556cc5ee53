// Package logger provides structured logging built on zerolog.
//
// Loggers are plain values intended to be passed into the pieces that
// need them (the webapp builder, the dev-mode handshake, the server).
// A process-wide default exists for code that has nothing injected.
package logger
