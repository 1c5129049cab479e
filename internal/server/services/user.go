// Package services contains server-side business logic: account management,
// the per-card conditional progress upsert, the shared breakdown dictionary,
// and the distributed app config.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/auth"
	"github.com/dmitrijs2005/cardsync/internal/server/config"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
// - Register: create accounts (bcrypt-hashed passwords)
// - Login: verify credentials and mint a JWT
// - Identify: resolve a token's user
// - AdminUsernames: the admin allow-list clients fetch at login
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. A duplicate username yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Username: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns the user plus a signed token. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Identify resolves a bearer token to its user. Invalid or expired tokens
// surface as common.ErrInvalidToken / common.ErrTokenExpired.
func (s *UserService) Identify(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// AdminUsernames returns the usernames flagged as administrators.
func (s *UserService) AdminUsernames(ctx context.Context) ([]string, error) {
	return s.repomanager.Users(s.db).ListAdminUsernames(ctx)
}
