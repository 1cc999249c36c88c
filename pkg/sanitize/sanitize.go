package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Package sanitize owns the HTML sanitization policy applied to post
// bodies before they are rendered as markup. Input is fully untrusted:
// nothing passes because it "looks safe", only because the allow-lists
// below name it.

// allowedTags is the minimal tag set for rich-text article bodies. It
// covers everything the editor toolbar can emit plus plain structural
// wrappers.
var allowedTags = []string{
	"b", "i", "em", "strong", "u", "s", "del", "ins",
	"p", "ul", "ol", "li", "a", "br",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "code", "pre",
	"img", "span", "div",
}

// Attribute allow-lists. href/target/rel are link-only, src/alt are
// image-only, title/class are global. Nothing else survives.
var (
	linkAttrs   = []string{"href", "target", "rel"}
	imageAttrs  = []string{"src", "alt"}
	globalAttrs = []string{"title", "class"}
)

// deniedAttr names attributes that must never survive sanitization,
// regardless of the allow-lists above. Inline event handlers and inline
// style stay out even if a future allow-list edit names them.
var deniedAttr = regexp.MustCompile(`(?i)^(on.+|style)$`)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowStandardURLs()
	p.AllowAttrs(withoutDenied(linkAttrs)...).OnElements("a")
	p.AllowAttrs(withoutDenied(imageAttrs)...).OnElements("img")
	p.AllowAttrs(withoutDenied(globalAttrs)...).Globally()
	return p
}

// withoutDenied filters the deny-list out of an attribute allow-list
// before it reaches the policy.
func withoutDenied(attrs []string) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if deniedAttr.MatchString(strings.TrimSpace(a)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// HTML sanitizes untrusted editor-produced HTML down to the allow-listed
// subset. Disallowed harmless tags are unwrapped with their text kept;
// script/style/iframe bodies are removed along with the tags. The
// transformation is idempotent.
func HTML(input string) string {
	return policy.Sanitize(input)
}
