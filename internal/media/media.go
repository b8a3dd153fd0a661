// Package media stores uploaded files on the media host and maps stored
// asset URLs back to the keys the host needs to delete them.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sakif/videotube/internal/config"
)

// ResourceType tells the host what kind of asset is being removed.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
)

// Upload folders. The folder is the first path segment of the object key.
const (
	FolderAvatar    = "user-avatar"
	FolderCover     = "user-cover"
	FolderVideo     = "videos"
	FolderThumbnail = "thumbnails"
)

// File is one uploaded multipart part, still unread.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Asset is a stored file as the rest of the system sees it.
//
// Duration is the media length in seconds when the host can report it;
// plain object stores leave it zero and the caller supplies one.
type Asset struct {
	URL      string
	Duration float64
}

// Store is the media hosting collaborator.
type Store interface {
	Store(ctx context.Context, f File, folder string) (*Asset, error)
	Remove(ctx context.Context, storageID string, kind ResourceType) error
}

// PublicBaseURL is the URL prefix every stored asset URL starts with.
// An explicit MEDIA_PUBLIC_BASE_URL wins; otherwise it is the path-style
// bucket URL on the custom endpoint or on AWS.
func PublicBaseURL(cfg config.MediaConfig) string {
	if base := strings.TrimSpace(cfg.PublicBaseURL); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
