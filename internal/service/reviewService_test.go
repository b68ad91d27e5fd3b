package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"critichub/internal/apperrors"
	"critichub/internal/dto"
	"critichub/internal/models"
)

// --- MOCK REPOSITORIES ---

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID string, titleID int64) (bool, error) {
	args := m.Called(ctx, authorID, titleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	args := m.Called(ctx, titleID, reviewID)
	return args.Error(0)
}

func (m *MockReviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockReviewRepository) AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	args := m.Called(ctx, titleIDs)
	return args.Get(0).(map[int64]float64), args.Error(1)
}

type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) List(ctx context.Context, filter dto.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, title, genres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- TESTS ---

func reviewTestFixtures() (*MockReviewRepository, *MockTitleRepository, ReviewService) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	// nil cache: every mutation path must still work without Redis.
	svc := NewReviewService(reviewRepo, titleRepo, nil)
	return reviewRepo, titleRepo, svc
}

func TestCreateReviewRejectsAnonymous(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()

	_, err := svc.Create(context.Background(), nil, 1, dto.CreateReviewRequest{Text: "fine", Score: 7})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewScoreBounds(t *testing.T) {
	author := &models.User{ID: "author-1", Role: models.RoleUser}

	for _, score := range []int{0, 11, -3, 100} {
		reviewRepo, _, svc := reviewTestFixtures()
		_, err := svc.Create(context.Background(), author, 1, dto.CreateReviewRequest{Text: "x", Score: score})
		assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange, "score %d must be rejected", score)
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}

	for _, score := range []int{1, 10} {
		reviewRepo, titleRepo, svc := reviewTestFixtures()
		titleRepo.On("FindByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
		reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "author-1", int64(1)).Return(false, nil)
		reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.Review).ID = 42 }).
			Return(nil)
		reviewRepo.On("FindByID", mock.Anything, int64(1), int64(42)).
			Return(&models.Review{ID: 42, TitleID: 1, AuthorID: "author-1", Score: score}, nil)

		review, err := svc.Create(context.Background(), author, 1, dto.CreateReviewRequest{Text: "x", Score: score})
		assert.NoError(t, err, "score %d must be accepted", score)
		assert.Equal(t, score, review.Score)
	}
}

func TestCreateReviewUnknownTitle(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewTestFixtures()
	author := &models.User{ID: "author-1", Role: models.RoleUser}

	titleRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.Create(context.Background(), author, 404, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewOnePerAuthorPerTitle(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewTestFixtures()
	author := &models.User{ID: "author-1", Role: models.RoleUser}

	titleRepo.On("FindByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "author-1", int64(1)).Return(true, nil)

	_, err := svc.Create(context.Background(), author, 1, dto.CreateReviewRequest{Text: "again", Score: 8})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateReviewStrangerForbidden(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()
	stranger := &models.User{ID: "stranger", Role: models.RoleUser}

	reviewRepo.On("FindByID", mock.Anything, int64(1), int64(2)).
		Return(&models.Review{ID: 2, TitleID: 1, AuthorID: "owner", Score: 5}, nil)

	text := "rewritten"
	_, err := svc.Update(context.Background(), stranger, 1, 2, dto.UpdateReviewRequest{Text: &text})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateReviewScoreValidatedBeforeSave(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()
	owner := &models.User{ID: "owner", Role: models.RoleUser}

	reviewRepo.On("FindByID", mock.Anything, int64(1), int64(2)).
		Return(&models.Review{ID: 2, TitleID: 1, AuthorID: "owner", Score: 5}, nil)

	bad := 11
	_, err := svc.Update(context.Background(), owner, 1, 2, dto.UpdateReviewRequest{Score: &bad})
	assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReviewOwner(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()
	owner := &models.User{ID: "owner", Role: models.RoleUser}

	reviewRepo.On("FindByID", mock.Anything, int64(1), int64(2)).
		Return(&models.Review{ID: 2, TitleID: 1, AuthorID: "owner"}, nil)
	reviewRepo.On("Delete", mock.Anything, int64(1), int64(2)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), owner, 1, 2))
	reviewRepo.AssertExpectations(t)
}

func TestDeleteReviewModeratorMayRemoveAnothers(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()
	moderator := &models.User{ID: "mod-1", Role: models.RoleModerator}

	reviewRepo.On("FindByID", mock.Anything, int64(1), int64(2)).
		Return(&models.Review{ID: 2, TitleID: 1, AuthorID: "owner"}, nil)
	reviewRepo.On("Delete", mock.Anything, int64(1), int64(2)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), moderator, 1, 2))
}

func TestDeleteReviewStrangerForbidden(t *testing.T) {
	reviewRepo, _, svc := reviewTestFixtures()
	stranger := &models.User{ID: "stranger", Role: models.RoleUser}

	reviewRepo.On("FindByID", mock.Anything, int64(1), int64(2)).
		Return(&models.Review{ID: 2, TitleID: 1, AuthorID: "owner"}, nil)

	err := svc.Delete(context.Background(), stranger, 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestListReviewsUnknownTitle(t *testing.T) {
	_, titleRepo, svc := reviewTestFixtures()

	titleRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.ListByTitle(context.Background(), 404, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
