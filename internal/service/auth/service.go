// Package auth wraps the identity concerns: credential sign-up and sign-in,
// OAuth-asserted sign-in, session token issuance and revocation, and password
// reset.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/email"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
	pkgauth "github.com/clinicware/clinic-api/pkg/auth"
	apperrors "github.com/clinicware/clinic-api/pkg/errors"
	"github.com/clinicware/clinic-api/pkg/security"
)

const resetTokenExpiry = 1 * time.Hour

type Service struct {
	users    repository.UserRepository
	jwt      pkgauth.JWTService
	hasher   security.PasswordHasher
	sessions SessionStore
	email    email.Service
	log      zerolog.Logger
}

func NewService(users repository.UserRepository, jwt pkgauth.JWTService,
	hasher security.PasswordHasher, sessions SessionStore, emailSvc email.Service,
	log zerolog.Logger) *Service {
	return &Service{
		users:    users,
		jwt:      jwt,
		hasher:   hasher,
		sessions: sessions,
		email:    emailSvc,
		log:      log,
	}
}

// SignUp creates a profile document and issues a session token. The role is
// fixed at signup; patient is the default.
func (s *Service) SignUp(ctx context.Context, req *model.SignupRequest) (*model.UserProfile, *model.TokenResponse, error) {
	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RolePatient
	}
	if !role.Valid() {
		return nil, nil, apperrors.Validation("invalid role")
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, nil, apperrors.Validation("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, apperrors.Validation("password too weak")
	}

	user := &model.UserProfile{
		UID:          uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.Gateway("failed to create user", err)
	}

	tokens, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, req *model.LoginRequest) (*model.UserProfile, *model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, nil, apperrors.Gateway("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	tokens, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// SignInWithOAuth upserts a profile for an externally asserted identity and
// issues a session token. First-time OAuth users get the patient role.
func (s *Service) SignInWithOAuth(ctx context.Context, req *model.OAuthRequest) (*model.UserProfile, *model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			return nil, nil, apperrors.Gateway("failed to look up user", err)
		}
		user = &model.UserProfile{
			UID:       uuid.New().String(),
			Name:      req.Name,
			Email:     req.Email,
			Role:      model.RolePatient,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, apperrors.Gateway("failed to create user", err)
		}
		s.log.Info().Str("provider", req.Provider).Str("uid", user.UID).Msg("created profile for oauth sign-in")
	}

	tokens, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// SignOut revokes the session token for the remainder of its lifetime.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		// Already unusable; nothing to revoke.
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.TokenID, s.jwt.Expiry()); err != nil {
		return apperrors.Gateway("failed to revoke session", err)
	}
	return nil
}

// ValidateToken parses the token and rejects revoked sessions.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, apperrors.Gateway("failed to check session", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("session revoked")
	}
	return claims, nil
}

// SendPasswordReset issues a reset token and emails it. A missing account is
// not reported to the caller.
func (s *Service) SendPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return apperrors.Gateway("failed to look up user", err)
	}

	token := uuid.New().String()
	if err := s.sessions.StoreResetToken(ctx, token, user.UID, resetTokenExpiry); err != nil {
		return apperrors.Gateway("failed to store reset token", err)
	}

	if err := s.email.SendPasswordReset(user.Email, token); err != nil {
		return apperrors.Gateway("failed to send reset email", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	uid, err := s.sessions.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return apperrors.Validation("invalid or expired reset token")
		}
		return apperrors.Gateway("failed to validate reset token", err)
	}

	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return apperrors.Gateway("failed to look up user", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Validation("password too weak")
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Gateway("failed to update password", err)
	}
	return nil
}

func (s *Service) issueToken(user *model.UserProfile) (*model.TokenResponse, error) {
	signed, _, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.jwt.Expiry().Seconds()),
	}, nil
}
