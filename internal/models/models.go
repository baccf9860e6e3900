package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. Username is stored lowercased, RefreshToken
// holds the single currently active refresh token (empty = logged out).
// WatchHistory keeps watched video ids in append order, oldest first.
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"             json:"id"`
	Username     string      `gorm:"uniqueIndex;not null"             json:"username"`
	Email        string      `gorm:"uniqueIndex;not null"             json:"email"`
	FullName     string      `gorm:"not null"                         json:"fullName"`
	PasswordHash string      `gorm:"not null"                         json:"-"`
	Avatar       string      `gorm:"not null"                         json:"avatar"`
	CoverImage   string      `                                        json:"coverImage"`
	RefreshToken string      `                                        json:"-"`
	WatchHistory []uuid.UUID `gorm:"serializer:json"                  json:"watchHistory"`
	CreatedAt    time.Time   `                                        json:"createdAt"`
	UpdatedAt    time.Time   `                                        json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription is a directed edge: subscriber follows channel. The composite
// unique index makes Subscribe idempotent.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_edge"   json:"subscriberId"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sub_edge"   json:"channelId"`
	CreatedAt    time.Time `                                                     json:"createdAt"`
	UpdatedAt    time.Time `                                                     json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Video metadata. Duration is probed from the uploaded media file, it is
// never taken from the request body.
type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	VideoFile   string    `gorm:"not null"               json:"videoFile"`
	Thumbnail   string    `gorm:"not null"               json:"thumbnail"`
	Title       string    `gorm:"not null;index"         json:"title"`
	Description string    `                              json:"description"`
	Duration    float64   `gorm:"not null"               json:"duration"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	CreatedAt   time.Time `                              json:"createdAt"`
	UpdatedAt   time.Time `                              json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// PublicUser is the sanitized projection attached to authenticated requests
// and returned by profile endpoints.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}

// ChannelProfile is the aggregated channel view: display fields plus the
// three derived subscription fields.
type ChannelProfile struct {
	PublicUser
	SubscribersCount  int64 `json:"subscribersCount"`
	SubscribedToCount int64 `json:"subscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}

// VideoOwner is the minimal owner projection nested in watch history items.
type VideoOwner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// VideoView is a video with its owner resolved to a single projection.
type VideoView struct {
	Video
	Owner VideoOwner `json:"owner"`
}
