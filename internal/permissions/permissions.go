package permissions

import (
	"net/http"

	"critichub/internal/apperrors"
	"critichub/internal/models"
)

// Resource groups collections that share write rules.
type Resource int

const (
	// ResourceCatalog covers categories, genres and titles: world-readable,
	// admin-writable.
	ResourceCatalog Resource = iota

	// ResourceReviews covers reviews and comments: world-readable, writable
	// by any authenticated user (object checks apply on mutation).
	ResourceReviews

	// ResourceUsers is the admin user collection: admin-only for both
	// reads and writes, unlike every other resource.
	ResourceUsers
)

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// deny picks the 401-vs-403 side of a denial.
func deny(identity *models.User) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	return apperrors.ErrForbidden
}

// CanAccessCollection decides request-level access to a collection.
// Returns nil when allowed, ErrUnauthenticated or ErrForbidden otherwise.
func CanAccessCollection(identity *models.User, method string, res Resource) error {
	if res == ResourceUsers {
		if IsAdmin(identity) {
			return nil
		}
		return deny(identity)
	}

	if safeMethod(method) {
		return nil
	}

	switch res {
	case ResourceCatalog:
		if IsAdmin(identity) {
			return nil
		}
	case ResourceReviews:
		if identity != nil {
			return nil
		}
	}
	return deny(identity)
}

// CanAccessObject decides object-level access. ownerID is the author of
// the target object; catalog entities have no owner and pass "".
// Every mutating service path must call this before applying side effects.
func CanAccessObject(identity *models.User, method string, res Resource, ownerID string) error {
	if res != ResourceUsers && safeMethod(method) {
		return nil
	}

	switch res {
	case ResourceCatalog, ResourceUsers:
		if IsAdmin(identity) {
			return nil
		}
	case ResourceReviews:
		if identity != nil && (identity.ID == ownerID || CanModerate(identity)) {
			return nil
		}
	}
	return deny(identity)
}
