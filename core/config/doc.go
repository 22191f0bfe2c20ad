// Package config provides configuration management for the country registry.
//
// Values come from environment variables, optionally seeded from a .env file,
// with defaults declared as `default` struct tags on each section.
//
// # Configuration Structure
//
//   - Server: HTTP port and API base path
//   - Auth: HTTP Basic credential pair for mutating routes
//   - Database: driver (mysql or sqlite) and connection details
//   - Storage: S3/MinIO credentials and the snapshot archive bucket
//   - Log: logging level and format
//   - Sync: snapshot source URL, timeout, schedule and archiving
//
// Nested keys map to upper-case environment variables joined by underscores,
// so sync.interval_minutes is read from SYNC_INTERVAL_MINUTES.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
