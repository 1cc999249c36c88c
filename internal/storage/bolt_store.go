package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	authBucket = "auth"
	feedBucket = "feed"

	// tokenKey is the fixed name the credential is stored under.
	tokenKey = "token"
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{authBucket, feedBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Token returns the stored credential, or "" when absent.
func (b *boltStore) Token() (string, error) {
	var token string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(authBucket))
		if bucket == nil {
			return fmt.Errorf("auth bucket missing")
		}
		if value := bucket.Get([]byte(tokenKey)); value != nil {
			token = string(value)
		}
		return nil
	})
	return token, err
}

// SetToken stores the credential under the fixed key.
func (b *boltStore) SetToken(token string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(authBucket))
		if bucket == nil {
			return fmt.Errorf("auth bucket missing")
		}
		return bucket.Put([]byte(tokenKey), []byte(token))
	})
}

// ClearToken removes the credential.
func (b *boltStore) ClearToken() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(authBucket))
		if bucket == nil {
			return fmt.Errorf("auth bucket missing")
		}
		return bucket.Delete([]byte(tokenKey))
	})
}

// SavePosts replaces the cached collection wholesale. The feed is small
// and the cache only needs to mirror the last successful fetch.
func (b *boltStore) SavePosts(posts []domain.Post) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(feedBucket)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(feedBucket))
		if err != nil {
			return err
		}
		for i, post := range posts {
			raw, err := json.Marshal(post)
			if err != nil {
				return fmt.Errorf("encode post %s: %w", post.ID, err)
			}
			// Key by insertion order so LoadPosts preserves the API's ordering.
			key := fmt.Sprintf("%08d", i)
			if err := bucket.Put([]byte(key), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadPosts returns the cached collection in stored order.
func (b *boltStore) LoadPosts() ([]domain.Post, error) {
	var posts []domain.Post
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(feedBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, value []byte) error {
			var post domain.Post
			if err := json.Unmarshal(value, &post); err != nil {
				return fmt.Errorf("decode cached post: %w", err)
			}
			posts = append(posts, post)
			return nil
		})
	})
	return posts, err
}
