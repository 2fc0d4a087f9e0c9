// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this
// package defines the configuration structure and the valid values for
// server-level settings, such as accepted payment methods.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by feature handlers to validate request values.
package server
