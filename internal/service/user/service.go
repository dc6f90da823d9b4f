package user

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
	"github.com/clinicware/clinic-api/pkg/security"
)

// Service manages user profile documents. Account creation here is the
// staff path: an admin provisions doctor and receptionist accounts, while
// patients arrive through signup.
type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	log    zerolog.Logger
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, log zerolog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		log:    log.With().Str("component", "user_service").Logger(),
	}
}

func (s *Service) ListUsers(ctx context.Context, role model.Role) ([]*model.UserProfile, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Gateway("Failed to fetch users", err)
	}
	if role == "" {
		return all, nil
	}

	filtered := make([]*model.UserProfile, 0, len(all))
	for _, u := range all {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// GetUser returns nil without error when no profile document exists.
func (s *Service) GetUser(ctx context.Context, uid string) (*model.UserProfile, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Gateway("Failed to fetch user", err)
	}
	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.UserProfile, error) {
	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RolePatient
	}
	if !role.Valid() {
		return nil, apperrors.Validation("unknown role")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Validation("email already registered")
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.Gateway("Failed to check existing user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.UserProfile{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Gateway("Failed to create user", err)
	}

	s.log.Info().Str("uid", user.UID).Str("role", string(role)).Msg("user created")
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, uid string, req *model.UpdateUserRequest) (*model.UserProfile, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Gateway("Failed to fetch user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Gateway("Failed to update user", err)
	}
	return user, nil
}
