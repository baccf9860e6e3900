package service

import (
	"context"

	"github.com/akore648/videotube/internal/models"
)

// UploadResult is what the blob storage collaborator reports back; the
// services only ever store the URL.
type UploadResult struct {
	URL string
}

// Uploader moves a request-local temp file into blob storage.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
}

// Publisher emits domain events. Publish failures are logged by the caller
// and never fail the request.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// VideoIndexer pushes video metadata into the search index.
type VideoIndexer interface {
	Index(ctx context.Context, video models.Video) error
}
