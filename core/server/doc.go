// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application; this package only defines the
// listening port and the prefix the API is mounted under (default /api/v1).
package server
