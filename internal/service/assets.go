package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/media"
)

// removeTimeout bounds one background asset removal.
const removeTimeout = 30 * time.Second

// Assets wraps the media host for the services that upload or replace
// files.
//
// Uploads are awaited: the URL they return is persisted right after.
// Removals run in the background once the new state is saved. A removal
// that fails leaves an orphaned object on the host and is logged at WARN;
// the request that triggered it has already succeeded.
type Assets struct {
	store    media.Store
	resolver *media.Resolver
	logger   *slog.Logger

	// detach runs fn off the request goroutine. Tests swap in a
	// synchronous version.
	detach func(fn func())
}

// NewAssets creates an Assets helper on top of store.
func NewAssets(store media.Store, resolver *media.Resolver, logger *slog.Logger) *Assets {
	return &Assets{
		store:    store,
		resolver: resolver,
		logger:   logger,
		detach:   func(fn func()) { go fn() },
	}
}

// Upload stores f under folder. A host failure is reported as Internal with
// a message naming field.
func (a *Assets) Upload(ctx context.Context, f *media.File, folder, field string) (*media.Asset, error) {
	asset, err := a.store.Store(ctx, *f, folder)
	if err != nil {
		return nil, apperror.Internal("Error while uploading "+field, err)
	}
	if asset == nil || asset.URL == "" {
		return nil, apperror.Internal("Error while uploading "+field, nil)
	}
	return asset, nil
}

// RemoveLater deletes the asset behind url in the background. URLs the
// resolver does not recognise are skipped.
func (a *Assets) RemoveLater(ctx context.Context, url string, kind media.ResourceType) {
	storageID := a.resolver.StorageID(url)
	if storageID == "" {
		if url != "" {
			a.logger.Warn("asset removal skipped: url not on media host", slog.String("url", url))
		}
		return
	}

	bg := context.WithoutCancel(ctx)
	a.detach(func() {
		ctx, cancel := context.WithTimeout(bg, removeTimeout)
		defer cancel()

		if err := a.store.Remove(ctx, storageID, kind); err != nil {
			a.logger.Warn("asset removal failed",
				slog.String("storage_id", storageID),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
			return
		}
		a.logger.Debug("asset removed", slog.String("storage_id", storageID))
	})
}
