package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blogpress-hq/blogpress-client/internal/composer"
	"github.com/blogpress-hq/blogpress-client/internal/config"
	"github.com/blogpress-hq/blogpress-client/internal/feed"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/internal/storage"
	"github.com/blogpress-hq/blogpress-client/pkg/apiclient"
)

// Writer is the create-post runtime: it wires the API client, credential
// store, feed, and composer form, and drives the draft-to-published flow.
type Writer struct {
	cfg    *config.Config
	store  storage.Store
	client apiclient.Client
	feed   *feed.Feed
	form   *composer.Form
	log    logger.Logger
}

// NewWriter builds a writer runtime from config.
func NewWriter(cfg *config.Config, log logger.Logger) (*Writer, error) {
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

	form := composer.NewForm(client, store, func() {
		if err := fd.Refresh(context.Background()); err != nil {
			log.WarnObj("post-create feed refresh failed", "error", err.Error())
		}
	}, log)

	return &Writer{
		cfg:    cfg,
		store:  store,
		client: client,
		feed:   fd,
		form:   form,
		log:    log,
	}, nil
}

// SaveToken stores the bearer credential for subsequent requests.
func (w *Writer) SaveToken(token string) error {
	if err := w.store.SetToken(token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	w.log.InfoObj("credential stored", "storage_type", w.cfg.StorageType)
	return nil
}

// PublishDraft loads a draft file, uploads any referenced local images,
// and submits the post. Validation and credential errors surface
// unwrapped so callers can distinguish them.
func (w *Writer) PublishDraft(ctx context.Context, draftPath string) error {
	draft, err := composer.LoadDraft(draftPath)
	if err != nil {
		return err
	}
	if err := draft.Apply(w.form); err != nil {
		return err
	}

	if draft.CoverImageFile != "" {
		if err := w.uploadFile(ctx, composer.CoverImage, draft.CoverImageFile); err != nil {
			return err
		}
	}
	if draft.AuthorImageFile != "" {
		if err := w.uploadFile(ctx, composer.AuthorImage, draft.AuthorImageFile); err != nil {
			return err
		}
	}

	return w.form.Submit(ctx)
}

// uploadFile runs one image upload to completion.
func (w *Writer) uploadFile(ctx context.Context, target composer.ImageField, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image file: %w", err)
	}
	defer file.Close()

	res := <-w.form.AttachImage(ctx, target, filepath.Base(path), file)
	if res.Err != nil {
		return res.Err
	}
	w.log.InfoObj("image uploaded", "upload", map[string]any{
		"field": string(target),
		"url":   res.URL,
	})
	return nil
}

// Close releases the storage backend.
func (w *Writer) Close() {
	if w == nil || w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
