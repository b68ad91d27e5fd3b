package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"critichub/internal/apperrors"
	"critichub/internal/models"
	"critichub/internal/token"
)

// stubUserRepo serves a fixed set of users by ID; the middleware only
// ever calls FindByID.
type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) List(context.Context, string, int, int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) Update(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error       { return nil }

func identifyRouter(issuer token.Issuer, repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identify(issuer, repo))
	r.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"username": user.Username, "role": string(user.Role)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	})
	return r
}

func TestIdentifyAnonymousPassesThrough(t *testing.T) {
	issuer := token.NewJWTIssuer("test-secret-test-secret-test-sec", time.Hour)
	r := identifyRouter(issuer, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":null`)
}

func TestIdentifyRejectsMalformedHeader(t *testing.T) {
	issuer := token.NewJWTIssuer("test-secret-test-secret-test-sec", time.Hour)
	r := identifyRouter(issuer, &stubUserRepo{})

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestIdentifyRejectsInvalidToken(t *testing.T) {
	issuer := token.NewJWTIssuer("test-secret-test-secret-test-sec", time.Hour)
	r := identifyRouter(issuer, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// A bad token is rejected even though the endpoint itself is open.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentifyLoadsRoleFromStore(t *testing.T) {
	issuer := token.NewJWTIssuer("test-secret-test-secret-test-sec", time.Hour)

	// The token was minted while the user was a plain user; the store has
	// since promoted them. The fresh role must win.
	user := &models.User{ID: "u-1", Username: "reader", Role: models.RoleUser}
	tok, err := issuer.Issue(user)
	assert.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Username: "reader", Role: models.RoleModerator},
	}}
	r := identifyRouter(issuer, repo)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"moderator"`)
}

func TestIdentifyRejectsDeletedUser(t *testing.T) {
	issuer := token.NewJWTIssuer("test-secret-test-secret-test-sec", time.Hour)

	tok, err := issuer.Issue(&models.User{ID: "gone", Username: "ghost", Role: models.RoleUser})
	assert.NoError(t, err)

	r := identifyRouter(issuer, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
