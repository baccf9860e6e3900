package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/models"
	"github.com/akore648/videotube/internal/repo"
)

// ChannelService computes derived views over users, subscriptions and watch
// history. Read-only except for RecordWatch.
type ChannelService struct {
	Repo *repo.GormRepo
}

// GetChannelProfile resolves a handle to the channel view: display fields
// plus subscriber counts and whether the viewer follows this channel.
func (s *ChannelService) GetChannelProfile(ctx context.Context, viewerID uuid.UUID, username string) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", ErrValidation)
	}

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: channel does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	subscribers, err := s.Repo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	subscribedTo, err := s.Repo.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	isSubscribed := false
	if viewerID != uuid.Nil {
		isSubscribed, err = s.Repo.IsSubscribed(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return &models.ChannelProfile{
		PublicUser:        user.Public(),
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// GetWatchHistory resolves the user's watch-history ids to videos, each with
// a single owner projection, preserving the stored order. Ids whose video
// has since been deleted are skipped.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]models.VideoView, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	videos, err := s.Repo.VideosByIDs(ctx, user.WatchHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(videos))
	seen := make(map[uuid.UUID]bool, len(videos))
	for _, v := range videos {
		if !seen[v.OwnerID] {
			seen[v.OwnerID] = true
			ownerIDs = append(ownerIDs, v.OwnerID)
		}
	}
	owners, err := s.Repo.UsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	history := make([]models.VideoView, 0, len(user.WatchHistory))
	for _, id := range user.WatchHistory {
		video, ok := videos[id]
		if !ok {
			continue
		}
		owner := owners[video.OwnerID]
		history = append(history, models.VideoView{
			Video: video,
			Owner: models.VideoOwner{
				FullName: owner.FullName,
				Username: owner.Username,
				Avatar:   owner.Avatar,
			},
		})
	}
	return history, nil
}

// RecordWatch appends a video to the user's watch history.
func (s *ChannelService) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	if _, err := s.Repo.VideoByID(ctx, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: video not found", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := s.Repo.AppendWatchHistory(ctx, userID, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}
