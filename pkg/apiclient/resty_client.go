package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	uploadPath = "/api/upload"
	postsPath  = "/api"
)

// RestyClient adapts resty.Client to the apiclient.Client interface.
type RestyClient struct {
	baseURL string
	client  *resty.Client
}

// NewRestyClient creates a client for the API at baseURL with the
// specified request timeout.
func NewRestyClient(baseURL string, timeout time.Duration) *RestyClient {
	c := resty.New()
	c.SetTimeout(timeout)
	return &RestyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  c,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage posts the image as the multipart "image" field. The bearer
// token is attached only when present.
func (c *RestyClient) UploadImage(ctx context.Context, token, filename string, image io.Reader) (string, error) {
	req := c.client.R().
		SetContext(ctx).
		SetFileReader("image", filename, image)
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Post(c.baseURL + uploadPath)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload response status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	var out uploadResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", fmt.Errorf("upload response missing url field")
	}
	return out.URL, nil
}

// CreatePost submits the record as a multipart form. Only HTTP 201
// counts as success.
func (c *RestyClient) CreatePost(ctx context.Context, token string, post domain.Post) error {
	fields := make(map[string]string, len(domain.RequiredFields))
	for _, f := range domain.RequiredFields {
		fields[string(f)] = post.Get(f)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetMultipartFormData(fields).
		Post(c.baseURL + postsPath)
	if err != nil {
		return fmt.Errorf("create post request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("create post response status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}
	return nil
}

// ListPosts fetches the stored post collection.
func (c *RestyClient) ListPosts(ctx context.Context) ([]domain.Post, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.baseURL + postsPath)
	if err != nil {
		return nil, fmt.Errorf("list posts request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list posts response status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	var posts []domain.Post
	if err := json.Unmarshal(resp.Body(), &posts); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	return posts, nil
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		return s[:512] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
