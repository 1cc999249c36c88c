package renderer

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"github.com/blogpress-hq/blogpress-client/internal/feed"
	"github.com/blogpress-hq/blogpress-client/internal/logger"
	"github.com/blogpress-hq/blogpress-client/pkg/sanitize"
	"github.com/blogpress-hq/blogpress-client/pkg/share"
)

// ViewKind discriminates the three render outcomes.
type ViewKind int

const (
	KindLoading ViewKind = iota
	KindNotFound
	KindArticle
)

// ShareLink pairs a platform with its prebuilt share URL.
type ShareLink struct {
	Platform share.Platform
	URL      string
}

// ArticleView is the read-only presentation of one post. Body is the
// only markup field and is always sanitizer output; ArticleView values
// are built nowhere but Render, so no caller can reach the page with an
// unsanitized body.
type ArticleView struct {
	ID             string
	Title          string
	Category       string
	CoverImageURL  string
	AuthorName     string
	AuthorImageURL string
	PublishedOn    string
	Body           template.HTML
	Excerpt        string
	PageURL        string
	ShareLinks     []ShareLink
}

// View is the result of a render: a loading placeholder, a not-found
// placeholder with a way back to the listing, or an article.
type View struct {
	Kind       ViewKind
	ListingURL string
	Article    *ArticleView
}

// Options carries the URLs the renderer derives presentation from.
type Options struct {
	// PageBaseURL is the public detail-page root; the share URL for a
	// post is PageBaseURL/<id>.
	PageBaseURL string
	// ListingURL is the navigation target of the not-found view.
	ListingURL string
	// Placeholder images substituted when a stored URL is unusable.
	PlaceholderPostImage   string
	PlaceholderAuthorImage string
}

// Renderer produces safe read-only views over an injected post provider.
// It never fetches: the provider owns the collection and its refresh.
type Renderer struct {
	provider feed.Provider
	opts     Options
	log      logger.Logger
}

// New builds a renderer over the given provider.
func New(provider feed.Provider, opts Options, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Renderer{provider: provider, opts: opts, log: log}
}

// Render looks the post up in the provider's collection and produces its
// view. A still-loading collection yields the loading placeholder; an
// unknown id yields the not-found placeholder.
func (r *Renderer) Render(postID string) View {
	if r.provider.Loading() {
		return View{Kind: KindLoading, ListingURL: r.opts.ListingURL}
	}

	var post *domain.Post
	for _, candidate := range r.provider.Posts() {
		if candidate.ID == postID {
			p := candidate
			post = &p
			break
		}
	}
	if post == nil {
		r.log.DebugObj("post not found", "post_id", postID)
		return View{Kind: KindNotFound, ListingURL: r.opts.ListingURL}
	}

	body := sanitize.HTML(post.Details)
	pageURL := share.PostURL(r.opts.PageBaseURL, post.ID)

	links := make([]ShareLink, 0, len(share.Platforms))
	for _, platform := range share.Platforms {
		link, err := share.URL(platform, pageURL, post.Title)
		if err != nil {
			continue
		}
		links = append(links, ShareLink{Platform: platform, URL: link})
	}

	return View{
		Kind:       KindArticle,
		ListingURL: r.opts.ListingURL,
		Article: &ArticleView{
			ID:             post.ID,
			Title:          post.Title,
			Category:       post.Category,
			CoverImageURL:  imageOrPlaceholder(post.ImageURL, r.opts.PlaceholderPostImage),
			AuthorName:     post.AuthorName,
			AuthorImageURL: imageOrPlaceholder(post.AuthorImg, r.opts.PlaceholderAuthorImage),
			PublishedOn:    FormatDate(post.CreatedAt),
			Body:           template.HTML(body),
			Excerpt:        Excerpt(body, excerptRunes),
			PageURL:        pageURL,
			ShareLinks:     links,
		},
	}
}

// imageOrPlaceholder falls back to the placeholder when the stored URL
// is empty or not an http(s) URL. Display fallback only, not a security
// control: the value is rendered as an image source, never as markup.
func imageOrPlaceholder(raw, placeholder string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholder
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return placeholder
	}
	return raw
}

const excerptRunes = 160

// Excerpt reduces sanitized article HTML to a short plain-text summary.
func Excerpt(sanitizedHTML string, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitizedHTML))
	if err != nil {
		return ""
	}
	// Join per top-level block so adjacent blocks don't run together.
	var parts []string
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if text == "" {
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
