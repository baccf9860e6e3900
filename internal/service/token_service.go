package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/repo"
	"github.com/akore648/videotube/internal/tokens"
)

// TokenService issues, verifies, rotates and revokes the access/refresh
// token pair. The authoritative copy of the refresh token lives on the user
// row; only the most recently issued token passes verification.
type TokenService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// IssuePair mints both tokens and persists the refresh token onto the user
// record. Never partial: if the write fails, no tokens are returned.
func (s *TokenService) IssuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	if _, err := s.Repo.UserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	accessExp := time.Now().Add(s.AccessTTL)
	accessToken, err := tokens.NewAccessToken(userID.String(), s.AccessSecret, accessExp)
	if err != nil {
		return nil, fmt.Errorf("%w: mint access token: %v", ErrInternal, err)
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refreshToken, err := tokens.NewRefreshToken(userID.String(), s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("%w: mint refresh token: %v", ErrInternal, err)
	}

	if err := s.Repo.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("%w: persist refresh token: %v", ErrInternal, err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// VerifyRefreshToken checks signature and expiry, then compares the
// presented token against the value currently stored on the user row. The
// stored value is read fresh on every call, which is what makes rotation
// stick: an already-rotated token is cryptographically valid but no longer
// matches.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: refresh token missing", ErrUnauthorized)
	}

	claims, err := tokens.RefreshClaimsFromToken(token, s.RefreshSecret)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if user.RefreshToken == "" || user.RefreshToken != token {
		return uuid.Nil, fmt.Errorf("%w: refresh token expired or used", ErrUnauthorized)
	}

	return userID, nil
}

// Rotate exchanges a valid refresh token for a fresh pair. The old token
// stops verifying the moment the new one is persisted.
func (s *TokenService) Rotate(ctx context.Context, token string) (*TokenPair, uuid.UUID, error) {
	userID, err := s.VerifyRefreshToken(ctx, token)
	if err != nil {
		return nil, uuid.Nil, err
	}
	pair, err := s.IssuePair(ctx, userID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return pair, userID, nil
}

// Revoke clears the stored refresh token. Revoking an already logged-out
// user is a no-op.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	err := s.Repo.SetRefreshToken(ctx, userID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}
