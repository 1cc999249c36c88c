package storage

import (
	"fmt"
	"strings"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
)

// Package storage provides local persistence for the client: the
// authorization credential and the cached post feed.

// Store persists the bearer token and the last-fetched post collection.
type Store interface {
	Close() error

	// Token returns the stored credential, or "" when none is stored.
	Token() (string, error)
	// SetToken stores the credential under the fixed key.
	SetToken(token string) error
	// ClearToken removes the credential. Called on HTTP 401.
	ClearToken() error

	// SavePosts replaces the cached post collection.
	SavePosts(posts []domain.Post) error
	// LoadPosts returns the cached post collection, possibly empty.
	LoadPosts() ([]domain.Post, error)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return &memStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// memStore keeps everything in memory; used when persistence is disabled
// and as the test double.
type memStore struct {
	token string
	posts []domain.Post
}

func (m *memStore) Close() error { return nil }

func (m *memStore) Token() (string, error) { return m.token, nil }

func (m *memStore) SetToken(token string) error {
	m.token = token
	return nil
}

func (m *memStore) ClearToken() error {
	m.token = ""
	return nil
}

func (m *memStore) SavePosts(posts []domain.Post) error {
	m.posts = append([]domain.Post(nil), posts...)
	return nil
}

func (m *memStore) LoadPosts() ([]domain.Post, error) {
	return append([]domain.Post(nil), m.posts...), nil
}
