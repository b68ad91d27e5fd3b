// Package apperrors defines the domain error taxonomy shared by every
// layer. Handlers translate these into HTTP statuses in exactly one place;
// nothing below the transport layer ever sees a raw status code.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no identity was presented at all.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means an identity was presented but its capability is
	// insufficient for the operation.
	ErrForbidden = errors.New("permission denied")

	ErrNotFound = errors.New("not found")

	// ErrValidation and ErrDuplicate are the roots of the 400 family;
	// concrete cases below wrap them so errors.Is can match either the
	// specific case or the family.
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("already exists")

	// ErrReferentialConflict means a delete was blocked by dependents.
	ErrReferentialConflict = errors.New("operation blocked by dependent records")
)

var (
	ErrUsernameReserved        = fmt.Errorf(`%w: username "me" is reserved`, ErrValidation)
	ErrUsernameInvalid         = fmt.Errorf("%w: username may only contain ASCII letters, digits and @.+-_", ErrValidation)
	ErrScoreOutOfRange         = fmt.Errorf("%w: score must be between 1 and 10", ErrValidation)
	ErrInvalidConfirmationCode = fmt.Errorf("%w: confirmation code is incorrect", ErrValidation)

	ErrDuplicateUsername = fmt.Errorf("%w: username already in use", ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("%w: email already in use", ErrDuplicate)
	ErrDuplicateSlug     = fmt.Errorf("%w: slug already in use", ErrDuplicate)
	ErrDuplicateReview   = fmt.Errorf("%w: you have already reviewed this title", ErrDuplicate)
)

// Kind returns the machine-readable kind for an error, used in response
// bodies alongside the human-readable message.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrReferentialConflict):
		return "referential_conflict"
	default:
		return "internal"
	}
}
