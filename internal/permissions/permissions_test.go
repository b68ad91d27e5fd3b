package permissions

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"critichub/internal/apperrors"
	"critichub/internal/models"
)

func user(role models.Role) *models.User {
	return &models.User{ID: "user-1", Username: "someone", Role: role}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"nil user", nil, false},
		{"plain user", user(models.RoleUser), false},
		{"moderator", user(models.RoleModerator), false},
		{"admin role", user(models.RoleAdmin), true},
		{"staff flag", &models.User{Role: models.RoleUser, IsStaff: true}, true},
		{"superuser flag", &models.User{Role: models.RoleUser, IsSuperuser: true}, true},
		{"staff moderator", &models.User{Role: models.RoleModerator, IsStaff: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdmin(tt.user))
		})
	}
}

func TestIsModerator(t *testing.T) {
	assert.True(t, IsModerator(user(models.RoleModerator)))
	assert.False(t, IsModerator(user(models.RoleAdmin)))
	assert.False(t, IsModerator(user(models.RoleUser)))
	assert.False(t, IsModerator(nil))

	// Staff flags confer admin capability, never moderator status.
	assert.False(t, IsModerator(&models.User{Role: models.RoleUser, IsStaff: true}))
}

func TestCanAccessCollection(t *testing.T) {
	t.Run("anonymous reads are allowed on catalog and reviews", func(t *testing.T) {
		assert.NoError(t, CanAccessCollection(nil, http.MethodGet, ResourceCatalog))
		assert.NoError(t, CanAccessCollection(nil, http.MethodGet, ResourceReviews))
	})

	t.Run("anonymous writes are unauthenticated", func(t *testing.T) {
		err := CanAccessCollection(nil, http.MethodPost, ResourceReviews)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("authenticated user may write reviews but not catalog", func(t *testing.T) {
		u := user(models.RoleUser)
		assert.NoError(t, CanAccessCollection(u, http.MethodPost, ResourceReviews))

		err := CanAccessCollection(u, http.MethodPost, ResourceCatalog)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("user collection is admin-only even for reads", func(t *testing.T) {
		err := CanAccessCollection(user(models.RoleUser), http.MethodGet, ResourceUsers)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		err = CanAccessCollection(nil, http.MethodGet, ResourceUsers)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))

		assert.NoError(t, CanAccessCollection(user(models.RoleAdmin), http.MethodGet, ResourceUsers))
	})

	t.Run("moderator does not gain admin collection access", func(t *testing.T) {
		err := CanAccessCollection(user(models.RoleModerator), http.MethodGet, ResourceUsers)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}

func TestCanAccessObject(t *testing.T) {
	owner := &models.User{ID: "owner", Role: models.RoleUser}
	stranger := &models.User{ID: "stranger", Role: models.RoleUser}
	moderator := &models.User{ID: "mod", Role: models.RoleModerator}
	admin := &models.User{ID: "adm", Role: models.RoleAdmin}

	t.Run("reads always pass outside the user collection", func(t *testing.T) {
		assert.NoError(t, CanAccessObject(nil, http.MethodGet, ResourceReviews, "owner"))
		assert.NoError(t, CanAccessObject(stranger, http.MethodGet, ResourceCatalog, ""))
	})

	t.Run("review writes require author, moderator or admin", func(t *testing.T) {
		assert.NoError(t, CanAccessObject(owner, http.MethodDelete, ResourceReviews, "owner"))
		assert.NoError(t, CanAccessObject(moderator, http.MethodDelete, ResourceReviews, "owner"))
		assert.NoError(t, CanAccessObject(admin, http.MethodDelete, ResourceReviews, "owner"))

		err := CanAccessObject(stranger, http.MethodDelete, ResourceReviews, "owner")
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		err = CanAccessObject(nil, http.MethodDelete, ResourceReviews, "owner")
		assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("catalog writes require admin", func(t *testing.T) {
		assert.NoError(t, CanAccessObject(admin, http.MethodDelete, ResourceCatalog, ""))

		err := CanAccessObject(moderator, http.MethodDelete, ResourceCatalog, "")
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		err = CanAccessObject(owner, http.MethodPost, ResourceCatalog, "")
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}
