package service

import (
	"context"
	"net/http"

	"critichub/internal/apperrors"
	"critichub/internal/dto"
	"critichub/internal/models"
	"critichub/internal/permissions"
	"critichub/internal/repository"
)

// UserService covers both the admin-only user collection and the
// self-service /me path. The collection is the one resource where even
// reads are admin-gated.
type UserService interface {
	List(ctx context.Context, identity *models.User, search string, page, pageSize int) ([]models.User, int64, error)
	Get(ctx context.Context, identity *models.User, username string) (*models.User, error)
	Create(ctx context.Context, identity *models.User, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, identity *models.User, username string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, identity *models.User, username string) error

	Me(ctx context.Context, identity *models.User) (*models.User, error)
	UpdateMe(ctx context.Context, identity *models.User, req dto.UpdateMeRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, identity *models.User, search string, page, pageSize int) ([]models.User, int64, error) {
	if err := permissions.CanAccessCollection(identity, http.MethodGet, permissions.ResourceUsers); err != nil {
		return nil, 0, err
	}
	return s.userRepo.List(ctx, search, page, pageSize)
}

func (s *userService) Get(ctx context.Context, identity *models.User, username string) (*models.User, error) {
	if err := permissions.CanAccessCollection(identity, http.MethodGet, permissions.ResourceUsers); err != nil {
		return nil, err
	}
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *userService) Create(ctx context.Context, identity *models.User, req dto.CreateUserRequest) (*models.User, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPost, permissions.ResourceUsers, ""); err != nil {
		return nil, err
	}
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, identity *models.User, username string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPatch, permissions.ResourceUsers, ""); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, identity *models.User, username string) error {
	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceUsers, ""); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, username)
}

func (s *userService) Me(ctx context.Context, identity *models.User) (*models.User, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.userRepo.FindByID(ctx, identity.ID)
}

// UpdateMe patches the caller's own record. The request type has no role
// field, so role stays read-only here regardless of payload content.
func (s *userService) UpdateMe(ctx context.Context, identity *models.User, req dto.UpdateMeRequest) (*models.User, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
