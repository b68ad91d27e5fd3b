package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"critichub/internal/apperrors"
)

// Postgres error codes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps storage-level failures onto the domain taxonomy.
// Constraint violations surface here when a concurrent writer slipped past
// the application-level check; the loser must still get the matching
// domain error, never a raw driver error.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateForConstraint(pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return apperrors.ErrReferentialConflict
		}
	}
	return err
}

func duplicateForConstraint(constraint string) error {
	switch {
	case strings.Contains(constraint, "author_title"):
		return apperrors.ErrDuplicateReview
	case strings.Contains(constraint, "username"):
		return apperrors.ErrDuplicateUsername
	case strings.Contains(constraint, "email"):
		return apperrors.ErrDuplicateEmail
	case strings.Contains(constraint, "slug"):
		return apperrors.ErrDuplicateSlug
	}
	return apperrors.ErrDuplicate
}
