// Package store persists countries and currencies.
//
// GormStore is the unit of work used by sync: reads are immediate, writes are
// staged and committed together by Flush inside one transaction, so a failed
// run leaves the database as it was. Repository serves the CRUD API and
// commits each call on its own.
//
// Database errors are mapped onto core/apperrors: unique violations become
// ErrConflict, everything else ErrPersistence.
package store
