package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/cache"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/utils"
)

const (
	msgNoSuchUser         = "no user found with this username or phone"
	msgInvalidCredentials = "invalid credentials"
	msgInvalidRefresh     = "refresh token is missing, invalid or expired"
)

// RefreshCredential is an issued refresh token. It is only ever handed to the
// cookie writer; response projections take models and plain strings.
type RefreshCredential struct {
	token     string
	expiresAt time.Time
}

// Value returns the signed token for the cookie.
func (c RefreshCredential) Value() string { return c.token }

// ExpiresAt returns the token expiry.
func (c RefreshCredential) ExpiresAt() time.Time { return c.expiresAt }

// Session is the result of a successful registration or login.
type Session struct {
	User        models.User
	AccessToken string
	Refresh     RefreshCredential
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username  string
	Phone     string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService registers users and issues, refreshes and revokes tokens.
type AuthService struct {
	store       repository.Store
	revocations cache.RevocationStore
	secret      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewAuthService constructs AuthService.
func NewAuthService(store repository.Store, revocations cache.RevocationStore, cfg *config.Config) *AuthService {
	return &AuthService{
		store:       store,
		revocations: revocations,
		secret:      cfg.JWTSecret,
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
	}
}

// RefreshTTL is the lifetime of refresh tokens and their cookie.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Register creates the user and issues its first token pair in one unit of
// work.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (Session, error) {
	user := models.User{
		Username:  strings.TrimSpace(input.Username),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  true,
	}
	if user.Username == "" {
		return Session{}, apperr.FieldValidation("username", "this field may not be blank")
	}
	user.DefaultPhone()

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	var session Session
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := checkUserUnique(ctx, tx, uuid.Nil, user.Username, user.Phone); err != nil {
			return err
		}

		err := tx.WithinTx(ctx, func(inner repository.Store) error {
			return inner.Users().Create(ctx, &user)
		})
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race against a concurrent registration.
			if uniqueErr := checkUserUnique(ctx, tx, uuid.Nil, user.Username, user.Phone); uniqueErr != nil {
				return uniqueErr
			}
			return apperr.FieldValidation("username", "a user with that username already exists")
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		session, err = s.issue(user)
		return err
	})
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// checkUserUnique rejects a username or phone already held by another user.
func checkUserUnique(ctx context.Context, store repository.Store, self uuid.UUID, username, phone string) error {
	if username != "" {
		existing, err := store.Users().GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != self:
			return apperr.FieldValidation("username", "a user with that username already exists")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("lookup username: %w", err)
		}
	}

	existing, err := store.Users().GetByPhone(ctx, phone)
	switch {
	case err == nil && existing.ID != self:
		return apperr.FieldValidation("phone", "a user with that phone already exists")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("lookup phone: %w", err)
	}
	return nil
}

// Login accepts either the username or the phone number as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (Session, error) {
	user, err := s.authenticate(ctx, identifier, password)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, errBadCredentials) {
		return Session{}, err
	}

	byPhone, err := s.store.Users().GetByPhone(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Authentication(msgNoSuchUser)
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup phone: %w", err)
	}

	user, err = s.authenticate(ctx, byPhone.Username, password)
	if errors.Is(err, errBadCredentials) {
		return Session{}, apperr.Authentication(msgInvalidCredentials)
	}
	if err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

var errBadCredentials = errors.New("bad credentials")

// authenticate checks a username/password pair the way the login backend
// does: unknown user, inactive user and wrong password are all the same
// failure.
func (s *AuthService) authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, errBadCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup username: %w", err)
	}
	if !user.IsActive || !utils.CheckPassword(user.PasswordHash, password) {
		return models.User{}, errBadCredentials
	}
	return user, nil
}

func (s *AuthService) issue(user models.User) (Session, error) {
	access, _, err := utils.GenerateToken(s.secret, user.ID, utils.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, claims, err := utils.GenerateToken(s.secret, user.ID, utils.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return Session{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Session{
		User:        user,
		AccessToken: access,
		Refresh:     RefreshCredential{token: refresh, expiresAt: claims.ExpiresAt.Time},
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself stays valid until it expires or is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	userID, _ := claims.UserUUID()
	user, err := s.store.Users().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !user.IsActive) {
		return "", apperr.InvalidToken(msgInvalidRefresh)
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	access, _, err := utils.GenerateToken(s.secret, user.ID, utils.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}

// Logout revokes the refresh token until its natural expiry. An unusable
// token is already as good as revoked, so it is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if apperr.Is(err, apperr.KindInvalidToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) verifyRefresh(ctx context.Context, refreshToken string) (*utils.Claims, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperr.InvalidToken(msgInvalidRefresh)
	}
	claims, err := utils.ParseToken(s.secret, refreshToken, utils.TokenTypeRefresh)
	if err != nil || claims.ID == "" {
		return nil, apperr.InvalidToken(msgInvalidRefresh)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperr.InvalidToken(msgInvalidRefresh)
	}
	return claims, nil
}

// Authenticate resolves a bearer access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := utils.ParseToken(s.secret, accessToken, utils.TokenTypeAccess)
	if err != nil {
		return models.User{}, apperr.Unauthorized("invalid token")
	}

	userID, _ := claims.UserUUID()
	user, err := s.store.Users().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !user.IsActive) {
		return models.User{}, apperr.Unauthorized("user not found or inactive")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
