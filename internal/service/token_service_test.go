package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akore648/videotube/internal/tokens"
)

func TestTokenService_IssuePair_PersistsRefreshToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newTestTokenService(r)
	ctx := context.Background()
	user := mustCreateUser(t, r, "alice")

	pair, err := svc.IssuePair(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	stored, err := r.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(svc.AccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_IssuePair_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(newTestRepo(t))

	pair, err := svc.IssuePair(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenService_VerifyRefreshToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newTestTokenService(r)
	ctx := context.Background()
	user := mustCreateUser(t, r, "bob")

	pair, err := svc.IssuePair(ctx, user.ID)
	require.NoError(t, err)

	got, err := svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)
}

func TestTokenService_VerifyRefreshToken_Failures(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newTestTokenService(r)
	ctx := context.Background()
	user := mustCreateUser(t, r, "carol")

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "missing token",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "garbage token",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				tok, err := tokens.NewRefreshToken(user.ID.String(), []byte("other-secret"), time.Now().Add(time.Hour))
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				tok, err := tokens.NewRefreshToken(user.ID.String(), svc.RefreshSecret, time.Now().Add(-time.Hour))
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "valid signature but unknown user",
			token: func(t *testing.T) string {
				tok, err := tokens.NewRefreshToken(uuid.NewString(), svc.RefreshSecret, time.Now().Add(time.Hour))
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "valid signature but not the stored token",
			token: func(t *testing.T) string {
				_, err := svc.IssuePair(ctx, user.ID)
				require.NoError(t, err)
				tok, err := tokens.NewRefreshToken(user.ID.String(), svc.RefreshSecret, time.Now().Add(time.Hour))
				require.NoError(t, err)
				return tok
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyRefreshToken(ctx, tt.token(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestTokenService_Rotate_InvalidatesOldToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newTestTokenService(r)
	ctx := context.Background()
	user := mustCreateUser(t, r, "dave")

	oldPair, err := svc.IssuePair(ctx, user.ID)
	require.NoError(t, err)

	newPair, gotID, err := svc.Rotate(ctx, oldPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
	assert.NotEqual(t, oldPair.RefreshToken, newPair.RefreshToken)

	// the rotated-out token is still cryptographically valid but must fail
	_, err = svc.VerifyRefreshToken(ctx, oldPair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired or used")

	// the fresh token verifies
	gotID, err = svc.VerifyRefreshToken(ctx, newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
}

func TestTokenService_Rotate_InvalidToken(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(newTestRepo(t))

	pair, _, err := svc.Rotate(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenService_Revoke_ClearsStoredToken(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newTestTokenService(r)
	ctx := context.Background()
	user := mustCreateUser(t, r, "erin")

	pair, err := svc.IssuePair(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, user.ID))

	stored, err := r.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	_, err = svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// revoking again is a no-op, as is revoking a user that never existed
	require.NoError(t, svc.Revoke(ctx, user.ID))
	require.NoError(t, svc.Revoke(ctx, uuid.New()))
}
