package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/hash"
	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/models"
	"github.com/akore648/videotube/internal/repo"
)

const userEventsTopic = "user_events"

type UserService struct {
	Repo     *repo.GormRepo
	Tokens   *TokenService
	Uploader Uploader
	Producer Publisher
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

type LoginResult struct {
	User models.PublicUser
	Pair TokenPair
}

// Register creates a user with a lowercased handle, a bcrypt password hash
// and uploaded avatar/cover URLs. The cover image is optional.
func (s *UserService) Register(ctx context.Context, in RegisterInput, avatarPath, coverPath string) (*models.PublicUser, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	for _, field := range []string{in.Username, in.Email, in.FullName, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
		}
	}
	if avatarPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := s.Repo.UserExists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user with email or username already exists", ErrConflict)
	}

	avatar, err := s.Uploader.Upload(ctx, avatarPath)
	if err != nil {
		l.Error("avatar_upload_failed", "error", err)
		return nil, fmt.Errorf("%w: avatar upload failed", ErrInternal)
	}

	var coverURL string
	if coverPath != "" {
		cover, err := s.Uploader.Upload(ctx, coverPath)
		if err != nil {
			l.Error("cover_upload_failed", "error", err)
			return nil, fmt.Errorf("%w: cover image upload failed", ErrInternal)
		}
		coverURL = cover.URL
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: pwHash,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user with email or username already exists", ErrConflict)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.publish(ctx, map[string]any{"event": "user_registered", "userId": user.ID.String()})
	l.Info("user_registered", "user_id", user.ID)

	pub := user.Public()
	return &pub, nil
}

// Login authenticates by username or email and issues a token pair.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, fmt.Errorf("%w: username or email and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByIdentifier(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid user credentials", ErrUnauthorized)
	}

	pair, err := s.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{User: user.Public(), Pair: *pair}, nil
}

// Logout revokes the stored refresh token. Safe to call repeatedly.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.Tokens.Revoke(ctx, userID)
}

func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.PublicUser, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new passwords are required", ErrValidation)
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: invalid old password", ErrUnauthorized)
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := s.Repo.UpdateUserFields(ctx, userID, map[string]any{"password_hash": pwHash}); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.PublicUser, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: full name and email are required", ErrValidation)
	}

	fields := map[string]any{
		"full_name": strings.TrimSpace(fullName),
		"email":     strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.Repo.UpdateUserFields(ctx, userID, fields); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.CurrentUser(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*models.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "avatar")
}

func (s *UserService) UpdateCover(ctx context.Context, userID uuid.UUID, localPath string) (*models.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "cover_image")
}

func (s *UserService) updateImage(ctx context.Context, userID uuid.UUID, localPath, column string) (*models.PublicUser, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: image file is required", ErrValidation)
	}
	res, err := s.Uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: image upload failed", ErrInternal)
	}
	if err := s.Repo.UpdateUserFields(ctx, userID, map[string]any{column: res.URL}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return s.CurrentUser(ctx, userID)
}

func (s *UserService) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	key := fmt.Sprint(event["userId"])
	if err := s.Producer.PublishEvent(ctx, userEventsTopic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", userEventsTopic, "error", err)
	}
}
