// Package session resolves the caller's authentication state and role by
// combining two sources: the session token and the profile document it points
// at. Pages gate themselves on the resolver's Guard outcome.
package session

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicware/clinic-api/internal/docstore"
	"github.com/clinicware/clinic-api/internal/model"
	"github.com/clinicware/clinic-api/internal/repository"
)

// Outcome is the navigation decision for the caller.
type Outcome int

const (
	// OutcomePending parks the caller: a source has not resolved yet.
	OutcomePending Outcome = iota
	OutcomeContinue
	OutcomeRedirectLogin
	OutcomeRedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeRedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "pending"
	}
}

// Guard is the resolver's answer. Loading stays true until both the token
// check and the profile fetch have resolved at least once; no redirect other
// than the login one is issued before that.
type Guard struct {
	Outcome Outcome
	Loading bool
	Role    model.Role
	User    *model.UserProfile
}

// TokenValidator is satisfied by the auth service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type Resolver struct {
	tokens   TokenValidator
	users    repository.UserRepository
	profiles *gocache.Cache
}

const (
	profileCacheTTL     = 30 * time.Second
	profileCacheCleanup = 5 * time.Minute
)

func NewResolver(tokens TokenValidator, users repository.UserRepository) *Resolver {
	return &Resolver{
		tokens:   tokens,
		users:    users,
		profiles: gocache.New(profileCacheTTL, profileCacheCleanup),
	}
}

// Resolve gates a request carrying the given session token against an
// optional role allow-list.
//
// No or invalid session resolves to a login redirect immediately, without
// waiting on the profile source. With a valid session, the profile document
// is fetched (via a short-lived cache): a missing document resolves the role
// to undefined, which never matches a non-empty allow-list; a transport
// failure leaves the guard pending rather than erroring.
func (r *Resolver) Resolve(ctx context.Context, token string, allow []model.Role) Guard {
	if token == "" {
		return Guard{Outcome: OutcomeRedirectLogin}
	}

	claims, err := r.tokens.ValidateToken(ctx, token)
	if err != nil {
		return Guard{Outcome: OutcomeRedirectLogin}
	}

	user, err := r.lookupProfile(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			// Role undefined: only an empty allow-list lets the caller through.
			if len(allow) == 0 {
				return Guard{Outcome: OutcomeContinue}
			}
			return Guard{Outcome: OutcomeRedirectUnauthorized}
		}
		return Guard{Outcome: OutcomePending, Loading: true}
	}

	if len(allow) > 0 && !roleAllowed(user.Role, allow) {
		return Guard{Outcome: OutcomeRedirectUnauthorized, Role: user.Role, User: user}
	}

	return Guard{Outcome: OutcomeContinue, Role: user.Role, User: user}
}

func (r *Resolver) lookupProfile(ctx context.Context, uid string) (*model.UserProfile, error) {
	if cached, ok := r.profiles.Get(uid); ok {
		return cached.(*model.UserProfile), nil
	}

	user, err := r.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	r.profiles.SetDefault(uid, user)
	return user, nil
}

// Invalidate drops a cached profile, e.g. after a profile update.
func (r *Resolver) Invalidate(uid string) {
	r.profiles.Delete(uid)
}

func roleAllowed(role model.Role, allow []model.Role) bool {
	for _, a := range allow {
		if a == role {
			return true
		}
	}
	return false
}
