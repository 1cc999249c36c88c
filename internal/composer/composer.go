package composer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/internal/storage"
	"github.com/blogpress-hq/blogpress-client/pkg/apiclient"
	"github.com/google/uuid"
)

var (
	// ErrSubmitInFlight rejects a second Submit while one is outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrUploadInFlight rejects writes to an image URL field while its
	// upload is pending.
	ErrUploadInFlight = errors.New("an upload for this field is in flight")
	// ErrNotAuthenticated aborts submission when no credential is stored.
	// Callers should send the user through login.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired reports a 401 on submission. The stored credential
	// has been cleared; callers should send the user through login.
	ErrSessionExpired = errors.New("session expired")
)

// ValidationError carries one message per invalid field. Submission is
// rejected without a network call when it is returned.
type ValidationError struct {
	Fields map[domain.Field]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range domain.RequiredFields {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ImageField names the two uploadable image targets.
type ImageField domain.Field

const (
	CoverImage  = ImageField(domain.FieldImageURL)
	AuthorImage = ImageField(domain.FieldAuthorImg)
)

// UploadResult is the terminal outcome of one AttachImage call. Stale
// marks a result that was discarded because a newer upload for the same
// field had already been requested.
type UploadResult struct {
	URL   string
	Err   error
	Stale bool
}

// Form is the create-post state machine. All field state is guarded by
// one mutex; uploads for the two image fields run concurrently with each
// other and with edits to unrelated fields.
type Form struct {
	client    apiclient.Client
	store     storage.Store
	onCreated func()
	log       logger.Logger

	mu         sync.Mutex
	post       domain.Post
	submitting bool
	uploadGen  map[domain.Field]uint64
	uploading  map[domain.Field]int
}

// NewForm builds a composer form. onCreated fires after a successful
// submission so the caller can refresh any cached post collection; it
// may be nil.
func NewForm(client apiclient.Client, store storage.Store, onCreated func(), log logger.Logger) *Form {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Form{
		client:    client,
		store:     store,
		onCreated: onCreated,
		log:       log,
		uploadGen: make(map[domain.Field]uint64),
		uploading: make(map[domain.Field]int),
	}
}

// SetField updates one field. An image URL field is locked while its own
// upload is pending; every other field stays editable.
func (c *Form) SetField(f domain.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uploading[f] > 0 {
		return ErrUploadInFlight
	}
	c.post.Set(f, value)
	return nil
}

// Snapshot returns a copy of the current field values, e.g. for image
// previews.
func (c *Form) Snapshot() domain.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.post
}

// Uploading reports whether an upload for target is pending.
func (c *Form) Uploading(target ImageField) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading[domain.Field(target)] > 0
}

// Reset clears every field back to empty, including the rich-text body.
func (c *Form) Reset() {
	c.mu.Lock()
	c.post = domain.Post{}
	c.mu.Unlock()
}

// AttachImage starts an asynchronous upload for target and returns a
// channel that receives the terminal result. A newer AttachImage for the
// same field supersedes this one: whichever request was issued last wins,
// regardless of response arrival order, because completions are applied
// only when their generation is still the field's newest. On failure the
// field keeps its prior value.
func (c *Form) AttachImage(ctx context.Context, target ImageField, filename string, image io.Reader) <-chan UploadResult {
	field := domain.Field(target)
	done := make(chan UploadResult, 1)

	c.mu.Lock()
	c.uploadGen[field]++
	gen := c.uploadGen[field]
	c.uploading[field]++
	c.mu.Unlock()

	go func() {
		defer close(done)
		done <- c.runUpload(ctx, field, gen, filename, image)
	}()
	return done
}

func (c *Form) runUpload(ctx context.Context, field domain.Field, gen uint64, filename string, image io.Reader) UploadResult {
	token, err := c.store.Token()
	if err != nil {
		c.finishUpload(field)
		return UploadResult{Err: fmt.Errorf("read credential: %w", err)}
	}

	url, err := c.client.UploadImage(ctx, token, filename, image)

	c.mu.Lock()
	c.uploading[field]--
	stale := gen != c.uploadGen[field]
	if err == nil && !stale {
		c.post.Set(field, url)
	}
	c.mu.Unlock()

	if err != nil {
		c.log.WarnObj("image upload failed", "upload_error", map[string]any{
			"field": string(field),
			"error": err.Error(),
		})
		return UploadResult{Err: fmt.Errorf("upload image: %w", err)}
	}
	if stale {
		c.log.DebugObj("stale upload result discarded", "field", string(field))
		return UploadResult{URL: url, Stale: true}
	}
	return UploadResult{URL: url}
}

func (c *Form) finishUpload(field domain.Field) {
	c.mu.Lock()
	c.uploading[field]--
	c.mu.Unlock()
}

// Submit validates, then sends the complete record. Without a stored
// credential it aborts with ErrNotAuthenticated before any network call.
// On success every field resets and onCreated fires. A 401 clears the
// credential and returns ErrSessionExpired; any other failure preserves
// field state so the user can retry.
func (c *Form) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	snapshot := c.post
	c.mu.Unlock()

	if err := validate(snapshot); err != nil {
		return err
	}

	token, err := c.store.Token()
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.submitting = true
	c.mu.Unlock()

	submissionID := uuid.NewString()
	c.log.InfoObj("submitting post", "submission", map[string]any{
		"id":       submissionID,
		"title":    snapshot.Title,
		"category": snapshot.Category,
	})

	err = c.client.CreatePost(ctx, token, snapshot)

	c.mu.Lock()
	c.submitting = false
	if err == nil {
		c.post = domain.Post{}
	}
	c.mu.Unlock()

	switch {
	case err == nil:
		c.log.InfoObj("post created", "submission_id", submissionID)
		if c.onCreated != nil {
			c.onCreated()
		}
		return nil
	case errors.Is(err, apiclient.ErrUnauthorized):
		if clearErr := c.store.ClearToken(); clearErr != nil {
			c.log.ErrorObj("credential clear failed", "error", clearErr.Error())
		}
		c.log.WarnObj("submission rejected, credential expired", "submission_id", submissionID)
		return ErrSessionExpired
	default:
		c.log.ErrorObj("submission failed", "submission_error", map[string]any{
			"id":    submissionID,
			"error": err.Error(),
		})
		return fmt.Errorf("submit post: %w", err)
	}
}

// validate checks every required field and the closed category set.
func validate(post domain.Post) error {
	fields := make(map[domain.Field]string)
	for _, f := range post.MissingFields() {
		fields[f] = "is required"
	}
	if _, missing := fields[domain.FieldCategory]; !missing && !domain.ValidCategory(post.Category) {
		fields[domain.FieldCategory] = fmt.Sprintf("unknown category %q", post.Category)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
