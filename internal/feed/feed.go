package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/internal/storage"
	"github.com/blogpress-hq/blogpress-client/pkg/apiclient"
)

// Provider is the read-only data contract views depend on: the shared
// post collection, a loading flag, and a refresh trigger. It is injected
// explicitly rather than reached through ambient state.
type Provider interface {
	Posts() []domain.Post
	Loading() bool
	Refresh(ctx context.Context) error
}

// Feed implements Provider over the external API with a local cache, so
// readers see the last fetched collection even before a refresh.
type Feed struct {
	client apiclient.Client
	store  storage.Store
	log    logger.Logger

	mu     sync.RWMutex
	posts  []domain.Post
	loaded bool
}

// New builds a feed. The cached collection, if any, is visible
// immediately; it does not count as loaded until Warm or Refresh runs.
func New(client apiclient.Client, store storage.Store, log logger.Logger) *Feed {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Feed{client: client, store: store, log: log}
}

// Warm populates the collection from the local cache without touching
// the network. Missing or empty cache still counts as loaded.
func (f *Feed) Warm() error {
	if f.store == nil {
		return nil
	}
	posts, err := f.store.LoadPosts()
	if err != nil {
		return fmt.Errorf("load cached posts: %w", err)
	}

	f.mu.Lock()
	f.posts = posts
	f.loaded = true
	f.mu.Unlock()

	f.log.DebugObj("feed warmed from cache", "posts_count", len(posts))
	return nil
}

// Refresh fetches the collection from the API and updates the cache. On
// failure the previously held collection stays visible.
func (f *Feed) Refresh(ctx context.Context) error {
	posts, err := f.client.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("refresh feed: %w", err)
	}

	f.mu.Lock()
	f.posts = posts
	f.loaded = true
	f.mu.Unlock()

	if f.store != nil {
		if err := f.store.SavePosts(posts); err != nil {
			f.log.WarnObj("feed cache write failed", "error", err.Error())
		}
	}

	f.log.InfoObj("feed refreshed", "posts_count", len(posts))
	return nil
}

// Posts returns a copy of the current collection.
func (f *Feed) Posts() []domain.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.Post(nil), f.posts...)
}

// Loading reports whether the collection has not been populated yet.
func (f *Feed) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.loaded
}
