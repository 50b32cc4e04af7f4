// CLAUDE:SUMMARY Sentinel errors for the decisionlog package.
package decisionlog

import "errors"

var (
	// ErrNotFound is returned when no entry exists for the given id.
	ErrNotFound = errors.New("decisionlog: entry not found")

	// ErrDuplicate is returned when promoting a candidate that is already
	// in the log.
	ErrDuplicate = errors.New("decisionlog: candidate already promoted")

	// ErrInvalidVars is returned when score variables are out of range.
	ErrInvalidVars = errors.New("decisionlog: score variables out of range")
)
