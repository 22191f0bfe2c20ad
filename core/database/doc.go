// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) and SQLite (tests, local runs)
// connections from the application's configuration.
//
// # Connect
//
// Connect opens the connection, applies pool limits and pings the server. Errors
// are translated by GORM so that unique index violations surface as
// gorm.ErrDuplicatedKey regardless of dialect.
//
// # Schema Inspection
//
// The schema is owned outside this application. VerifyColumns lets the start
// command report missing columns of the country and currency tables instead of
// failing later on the first query.
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.VerifyColumns(db, "country", []string{"id", "uuid", "name"})
package database
