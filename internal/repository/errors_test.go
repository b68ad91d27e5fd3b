package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"critichub/internal/apperrors"
)

func pgError(code, constraint string) error {
	return fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestTranslateErrorNil(t *testing.T) {
	assert.NoError(t, translateError(nil))
}

func TestTranslateErrorRecordNotFound(t *testing.T) {
	err := translateError(gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Wrapped not-found from deeper in the stack maps the same way.
	err = translateError(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTranslateErrorUniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"idx_reviews_author_title", apperrors.ErrDuplicateReview},
		{"idx_users_username", apperrors.ErrDuplicateUsername},
		{"idx_users_email", apperrors.ErrDuplicateEmail},
		{"idx_categories_slug", apperrors.ErrDuplicateSlug},
		{"idx_genres_slug", apperrors.ErrDuplicateSlug},
		{"something_unmapped", apperrors.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := translateError(pgError("23505", tt.constraint))
			assert.ErrorIs(t, err, tt.want)
			// Every duplicate also matches the family sentinel.
			assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		})
	}
}

func TestTranslateErrorForeignKeyViolation(t *testing.T) {
	err := translateError(pgError("23503", "fk_titles_category"))
	assert.ErrorIs(t, err, apperrors.ErrReferentialConflict)
}

func TestTranslateErrorPassesThroughUnknown(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Equal(t, boom, translateError(boom))

	// Unrelated postgres codes are not part of the taxonomy.
	err := translateError(pgError("40001", ""))
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NotErrorIs(t, err, apperrors.ErrReferentialConflict)
}
