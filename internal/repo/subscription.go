package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/akore648/videotube/internal/models"
)

func (r *GormRepo) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *GormRepo) CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

func (r *GormRepo) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSubscription is idempotent: an existing edge is left untouched and
// reported via created=false.
func (r *GormRepo) CreateSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (created bool, err error) {
	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	tx := r.DB.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		FirstOrCreate(&sub)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return false, nil
		}
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormRepo) DeleteSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{}).Error
}
