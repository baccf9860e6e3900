package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akore648/videotube/internal/logging"
	"github.com/akore648/videotube/internal/repo"
)

type SubscriptionService struct {
	Repo     *repo.GormRepo
	Producer Publisher
}

// Subscribe creates the subscriber→channel edge. Subscribing twice is a
// no-op, subscribing to yourself is rejected.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	if subscriberID == channelID {
		return fmt.Errorf("%w: cannot subscribe to your own channel", ErrValidation)
	}

	if _, err := s.Repo.UserByID(ctx, channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: channel does not exist", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	created, err := s.Repo.CreateSubscription(ctx, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if created && s.Producer != nil {
		event := map[string]any{
			"event":        "subscription_created",
			"subscriberId": subscriberID.String(),
			"channelId":    channelID.String(),
		}
		if err := s.Producer.PublishEvent(ctx, userEventsTopic, subscriberID.String(), event); err != nil {
			logging.FromContext(ctx).Error("kafka_publish_failed", "topic", userEventsTopic, "error", err)
		}
	}
	return nil
}

// Unsubscribe removes the edge if present.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	if err := s.Repo.DeleteSubscription(ctx, subscriberID, channelID); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}
