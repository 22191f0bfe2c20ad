// Package models defines the gorm models for the country and currency tables.
package models
