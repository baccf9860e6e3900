package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/models"
	"github.com/akore648/videotube/internal/repo"
)

const videoEventsTopic = "video_events"

type VideoService struct {
	Repo     *repo.GormRepo
	Uploader Uploader
	Indexer  VideoIndexer
	Producer Publisher

	// Probe reads the duration (seconds) out of an uploaded media file.
	Probe func(localPath string) (float64, error)
}

type PublishVideoInput struct {
	Title       string
	Description string
}

// Publish uploads the media and thumbnail, probes the duration from the
// file itself and creates the video record. The owner always comes from the
// session, never from the request body.
func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput, videoPath, thumbPath string) (*models.Video, error) {
	l := logging.FromContext(ctx).With("svc", "video.publish")

	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if videoPath == "" {
		return nil, fmt.Errorf("%w: video file is required", ErrValidation)
	}
	if thumbPath == "" {
		return nil, fmt.Errorf("%w: thumbnail file is required", ErrValidation)
	}

	if _, err := s.Repo.UserByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: owner does not exist", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	var duration float64
	if s.Probe != nil {
		d, err := s.Probe(videoPath)
		if err != nil {
			l.Warn("duration_probe_failed", "error", err)
			d = 0
		}
		duration = d
	}

	videoFile, err := s.Uploader.Upload(ctx, videoPath)
	if err != nil {
		l.Error("video_upload_failed", "error", err)
		return nil, fmt.Errorf("%w: video upload failed", ErrInternal)
	}
	thumb, err := s.Uploader.Upload(ctx, thumbPath)
	if err != nil {
		l.Error("thumbnail_upload_failed", "error", err)
		return nil, fmt.Errorf("%w: thumbnail upload failed", ErrInternal)
	}

	video := models.Video{
		VideoFile:   videoFile.URL,
		Thumbnail:   thumb.URL,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Duration:    duration,
		OwnerID:     ownerID,
	}
	if err := s.Repo.CreateVideo(ctx, &video); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if s.Indexer != nil {
		if err := s.Indexer.Index(ctx, video); err != nil {
			l.Error("video_index_failed", "video_id", video.ID, "error", err)
		}
	}
	s.publish(ctx, map[string]any{
		"event":   "video_published",
		"videoId": video.ID.String(),
		"ownerId": ownerID.String(),
	})

	l.Info("video_published", "video_id", video.ID, "owner_id", ownerID)
	return &video, nil
}

func (s *VideoService) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.Repo.VideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: video not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return video, nil
}

// ListByChannel returns a channel's videos, newest first.
func (s *VideoService) ListByChannel(ctx context.Context, channelID uuid.UUID, offset, limit int) (int64, []models.Video, error) {
	total, videos, err := s.Repo.VideosByOwner(ctx, channelID, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return total, videos, nil
}

func (s *VideoService) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	key := fmt.Sprint(event["ownerId"])
	if err := s.Producer.PublishEvent(ctx, videoEventsTopic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", videoEventsTopic, "error", err)
	}
}
