// Package apperrors defines the sentinel errors shared across the application.
//
// Callers wrap them with fmt.Errorf and the %w verb so that the HTTP layer and
// the CLI can classify failures with errors.Is:
//
//	if errors.Is(err, apperrors.ErrFetch) {
//	    // the source was unreachable, nothing was reconciled
//	}
package apperrors
