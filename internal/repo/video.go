package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/akore648/videotube/internal/models"
)

func (r *GormRepo) CreateVideo(ctx context.Context, v *models.Video) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// VideosByIDs returns the matching videos keyed by id; callers reassemble
// their own ordering.
func (r *GormRepo) VideosByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Video, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Video{}, nil
	}
	var videos []models.Video
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID, nil
}

func (r *GormRepo) VideosByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) (int64, []models.Video, error) {
	var total int64
	q := r.DB.WithContext(ctx).Model(&models.Video{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var videos []models.Video
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&videos).Error
	if err != nil {
		return 0, nil, err
	}
	return total, videos, nil
}
