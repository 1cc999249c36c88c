package apiclient

import (
	"context"
	"errors"
	"io"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
)

// ErrUnauthorized reports a missing or expired credential (HTTP 401).
// Callers treat it distinctly from other failures: the stored credential
// is cleared and the user is sent back through login.
var ErrUnauthorized = errors.New("api: unauthorized")

// Client abstracts the external blog API so callers can inject mocks or
// different transports.
type Client interface {
	// UploadImage posts one image as a multipart body and returns the
	// stored image URL.
	UploadImage(ctx context.Context, token, filename string, image io.Reader) (string, error)
	// CreatePost submits a complete post record. Success is HTTP 201.
	CreatePost(ctx context.Context, token string, post domain.Post) error
	// ListPosts fetches the full post collection.
	ListPosts(ctx context.Context) ([]domain.Post, error)
}
