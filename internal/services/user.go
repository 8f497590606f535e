package services

import (
	"context"

	"github.com/C241-PS090/backend-api/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByToken(ctx context.Context, token string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error)
	SetToken(ctx context.Context, id string, token *string) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByToken(ctx context.Context, token string) (types.User, error) {
	return s.repo.GetByToken(ctx, token)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (types.User, error) {
	return s.repo.UpdateProfile(ctx, id, update)
}

// SetToken replaces the user's session token; a nil token logs the user
// out.
func (s *UserService) SetToken(ctx context.Context, id string, token *string) error {
	return s.repo.SetToken(ctx, id, token)
}
