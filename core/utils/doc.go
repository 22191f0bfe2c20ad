// Package utils provides common utility functions for the country-registry application.
// It mostly deals with turning loosely typed values decoded from external JSON
// into the concrete types stored in the database.
package utils
