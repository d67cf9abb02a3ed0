package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaudhryu/police-report-request-backend/internal/db"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/rs/zerolog"
)

// Claims is what the trusted edge (gateway or identity-provider middleware)
// hands us for one request. Any field may be empty.
type Claims struct {
	Badge       string
	Email       string
	CookieBadge string
}

// DirectoryLookup is the slice of the directory client the resolver needs.
type DirectoryLookup interface {
	GetProfileByEmail(ctx context.Context, email string) (*model.UserProfile, error)
}

// Resolver maps external claims onto an internal badge identity. Resolution
// order: badge claim, badge cookie, user store by email, directory profile.
// The admin flag always comes from the user store, never from the client.
type Resolver struct {
	repo      db.Repository
	directory DirectoryLookup
	log       zerolog.Logger
}

func NewResolver(repo db.Repository, dir DirectoryLookup) *Resolver {
	return &Resolver{
		repo:      repo,
		directory: dir,
		log:       logger.Get(),
	}
}

func (r *Resolver) Resolve(ctx context.Context, claims Claims) (*AuthContext, error) {
	badge := claims.Badge
	if badge == "" {
		badge = claims.CookieBadge
	}

	if badge != "" {
		return r.contextForBadge(ctx, badge, claims.Email)
	}

	if claims.Email == "" {
		return nil, pkgerrors.ErrNoIdentity
	}

	user, err := r.repo.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("user lookup by email: %w", err)
	}
	if user != nil {
		return contextFromUser(user, claims.Email), nil
	}

	return r.resolveViaDirectory(ctx, claims.Email)
}

func (r *Resolver) contextForBadge(ctx context.Context, badge, email string) (*AuthContext, error) {
	user, err := r.repo.GetUserByBadge(ctx, badge)
	if err != nil {
		return nil, fmt.Errorf("user lookup by badge: %w", err)
	}
	if user != nil {
		return contextFromUser(user, email), nil
	}
	// Known badge claim, no local row yet: the caller is a valid
	// non-admin until a profile sync creates their record.
	return &AuthContext{Badge: badge, Email: email}, nil
}

// resolveViaDirectory is the last resort: ask the identity provider for a
// profile carrying a badge attribute, and lazily sync it into the user store.
// The sync never touches the admin flag.
func (r *Resolver) resolveViaDirectory(ctx context.Context, email string) (*AuthContext, error) {
	profile, err := r.directory.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrNoIdentity
		}
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	if profile.Badge == "" {
		return nil, pkgerrors.ErrNoIdentity
	}

	if err := r.repo.UpsertUser(ctx, *profile, profile.Badge); err != nil {
		r.log.Error().Err(err).Str("badge", profile.Badge).Msg("Failed to sync directory profile")
	}

	user, err := r.repo.GetUserByBadge(ctx, profile.Badge)
	if err != nil {
		return nil, fmt.Errorf("user lookup after sync: %w", err)
	}
	if user != nil {
		return contextFromUser(user, email), nil
	}
	return &AuthContext{Badge: profile.Badge, Email: email, DisplayName: profile.DisplayName}, nil
}

func contextFromUser(user *model.User, fallbackEmail string) *AuthContext {
	authCtx := &AuthContext{
		Badge:   user.Badge,
		Email:   fallbackEmail,
		IsAdmin: user.IsAdmin,
	}
	if user.Email != nil && *user.Email != "" {
		authCtx.Email = *user.Email
	}
	if user.DisplayName != nil {
		authCtx.DisplayName = *user.DisplayName
	}
	return authCtx
}
