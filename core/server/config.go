package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8084"`
	// BasePath is the prefix every API route is mounted under.
	BasePath string `mapstructure:"base_path" default:"/api/v1"`
}

// ListenAddr returns the address passed to fiber's Listen.
func (c Config) ListenAddr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// APIPrefix returns the normalized route prefix ("/api/v1"), or "" when mounted at root.
func (c Config) APIPrefix() string {
	p := strings.Trim(c.BasePath, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
