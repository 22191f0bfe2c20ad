package apperrors

import "errors"

// ErrFetch indicates that the country snapshot could not be retrieved from its source.
var ErrFetch = errors.New("snapshot fetch failed")

// ErrDataShape indicates that a snapshot record is missing an expected field.
// It is reported as a warning and never aborts a sync run.
var ErrDataShape = errors.New("malformed snapshot record")

// ErrPersistence indicates that loading or committing persisted records failed.
var ErrPersistence = errors.New("persistence failed")

// ErrConflict indicates that a commit violated a uniqueness constraint,
// typically two sync runs racing to create the same currency.
var ErrConflict = errors.New("conflicting write")

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")
