package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

// Package share derives shareable links for a post from its page URL and
// title. Share actions produce no persisted state.

// Platform is one of the fixed share targets.
type Platform string

const (
	Facebook Platform = "facebook"
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
)

// Platforms is the closed platform set, in display order.
var Platforms = []Platform{Facebook, Twitter, LinkedIn}

// PostURL joins the public page base with a post id.
func PostURL(pageBase, postID string) string {
	return strings.TrimRight(pageBase, "/") + "/" + url.PathEscape(postID)
}

// URL returns the platform's share endpoint for the given page URL and
// post title.
func URL(platform Platform, pageURL, title string) (string, error) {
	u := url.QueryEscape(pageURL)
	switch platform {
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + u, nil
	case Twitter:
		return "https://twitter.com/intent/tweet?url=" + u + "&text=" + url.QueryEscape(title), nil
	case LinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + u, nil
	}
	return "", fmt.Errorf("unknown share platform %q", platform)
}

// CopyLink places the page URL on the system clipboard.
func CopyLink(pageURL string) error {
	if err := clipboard.WriteAll(pageURL); err != nil {
		return fmt.Errorf("copy link: %w", err)
	}
	return nil
}
