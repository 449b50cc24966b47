package app

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/subtrackr/subscription-api/internal/domain"
)

// UserService provides account listing and profile updates.
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new user service.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List retrieves all registered users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Get retrieves a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial profile update. A new password is re-hashed; the
// repository commits the whole update atomically, so a failure leaves the
// prior record unchanged.
func (s *UserService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	return s.repo.Update(ctx, user)
}
