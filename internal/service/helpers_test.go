package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/hash"
	"github.com/akore648/videotube/internal/models"
	"github.com/akore648/videotube/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Subscription{}, &models.Video{}))

	return repo.New(db)
}

func newTestTokenService(r *repo.GormRepo) *TokenService {
	return &TokenService{
		Repo:          r,
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func newTestUserService(r *repo.GormRepo) *UserService {
	return &UserService{
		Repo:     r,
		Tokens:   newTestTokenService(r),
		Uploader: stubUploader{},
	}
}

func mustCreateUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("Secret123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		PasswordHash: pwHash,
		Avatar:       "https://cdn.example.com/" + username + ".png",
	}
	require.NoError(t, r.CreateUser(context.Background(), &user))
	return &user
}

func mustCreateVideo(t *testing.T, r *repo.GormRepo, owner *models.User, title string) *models.Video {
	t.Helper()

	video := models.Video{
		VideoFile: "https://cdn.example.com/" + title + ".mp4",
		Thumbnail: "https://cdn.example.com/" + title + ".jpg",
		Title:     title,
		Duration:  42,
		OwnerID:   owner.ID,
	}
	require.NoError(t, r.CreateVideo(context.Background(), &video))
	return &video
}

func marshalFields(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

type stubUploader struct {
	fail bool
}

func (s stubUploader) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if s.fail {
		return nil, errors.New("upload failed")
	}
	return &UploadResult{URL: "https://cdn.example.com/" + localPath}, nil
}

type recordingPublisher struct {
	topics []string
	events []map[string]any
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	p.topics = append(p.topics, topic)
	if m, ok := event.(map[string]any); ok {
		p.events = append(p.events, m)
	}
	return nil
}
