// Package sentinel holds infrastructure facts that stores return (optionally
// wrapped) so services can translate them into domain errors.
//
// They describe the state of a resource, not bad input; validation failures
// use pkg/domain-errors directly.
package sentinel

import "errors"

var (
	// ErrNotFound: the record does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a record with the same id was already appended.
	ErrConflict = errors.New("conflict")
)
