package app

import (
	"context"
	"fmt"

	"github.com/blogpress-hq/blogpress-client/internal/config"
	"github.com/blogpress-hq/blogpress-client/internal/feed"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/internal/renderer"
	"github.com/blogpress-hq/blogpress-client/internal/storage"
	"github.com/blogpress-hq/blogpress-client/pkg/apiclient"
	"github.com/blogpress-hq/blogpress-client/pkg/share"
)

// Reader is the read-side runtime: the cached feed plus the renderer.
type Reader struct {
	cfg      *config.Config
	store    storage.Store
	feed     *feed.Feed
	renderer *renderer.Renderer
	log      logger.Logger
}

// NewReader builds a reader runtime from config. The feed is warmed from
// the local cache so previously fetched posts render offline.
func NewReader(cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	client := apiclient.NewRestyClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	fd := feed.New(client, store, log)
	if err := fd.Warm(); err != nil {
		log.WarnObj("feed cache warm failed", "error", err.Error())
	}

	r := renderer.New(fd, renderer.Options{
		PageBaseURL:            cfg.PageBaseURL,
		ListingURL:             cfg.ListingURL,
		PlaceholderPostImage:   cfg.PlaceholderPostImage,
		PlaceholderAuthorImage: cfg.PlaceholderAuthorImage,
	}, log)

	return &Reader{
		cfg:      cfg,
		store:    store,
		feed:     fd,
		renderer: r,
		log:      log,
	}, nil
}

// Refresh fetches the post collection from the API.
func (r *Reader) Refresh(ctx context.Context) error {
	return r.feed.Refresh(ctx)
}

// RenderPost renders one post (or its loading/not-found placeholder) as
// an HTML document.
func (r *Reader) RenderPost(postID string) (string, error) {
	return r.renderer.Render(postID).Document()
}

// ShareURL returns the platform share link for a post.
func (r *Reader) ShareURL(postID string, platform share.Platform) (string, error) {
	view := r.renderer.Render(postID)
	if view.Kind != renderer.KindArticle {
		return "", fmt.Errorf("post %q not available for sharing", postID)
	}
	return share.URL(platform, view.Article.PageURL, view.Article.Title)
}

// CopyLink copies the post page URL to the system clipboard.
func (r *Reader) CopyLink(postID string) error {
	view := r.renderer.Render(postID)
	if view.Kind != renderer.KindArticle {
		return fmt.Errorf("post %q not available for sharing", postID)
	}
	return share.CopyLink(view.Article.PageURL)
}

// Close releases the storage backend.
func (r *Reader) Close() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
