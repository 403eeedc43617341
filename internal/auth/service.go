package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

type Service struct {
	tokens *Repository
	users  user.Repository
}

func NewService(tokens *Repository, users user.Repository) *Service {
	return &Service{
		tokens: tokens,
		users:  users,
	}
}

// Login authenticates a user and returns an access/refresh token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !verifyPassword(u.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, u)
}

// RefreshAccessToken generates a new token pair from a refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.tokens.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.generateTokenPair(ctx, u)
}

// Logout invalidates a refresh token.
func (s *Service) Logout(ctx context.Context, refreshTokenString string) error {
	return s.tokens.DeleteRefreshToken(ctx, refreshTokenString)
}

// ChangePassword replaces the current password with a bcrypt hash of the new
// one and revokes every refresh token. This is how the CI bootstrap credential
// seeded at registration gets rotated into a real password.
func (s *Service) ChangePassword(ctx context.Context, userID int, req ChangePasswordRequest) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !verifyPassword(u.Password, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}

	return s.tokens.DeleteAllUserTokens(ctx, userID)
}

// verifyPassword accepts both bcrypt hashes and the verbatim CI bootstrap
// credential that registration seeds before the first password change.
func verifyPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func (s *Service) generateTokenPair(ctx context.Context, u *user.User) (*AuthResponse, error) {
	role := ""
	if u.Role != nil {
		role = u.Role.Name
	}

	accessToken, err := GenerateAccessToken(u.ID, u.Email, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	if err := s.tokens.CreateRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u,
	}, nil
}
