package domain

import "strings"

// Domain contains core models shared by the composer and renderer.

// Post is a blog post as stored by the external API. Details holds
// editor-produced HTML and is untrusted once it has round-tripped
// through storage.
type Post struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	ImageURL   string `json:"imgUrl"`
	AuthorName string `json:"authorName"`
	AuthorImg  string `json:"authorImg"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Field names a submittable post field. Values match the external API's
// multipart form keys.
type Field string

const (
	FieldTitle      Field = "title"
	FieldCategory   Field = "category"
	FieldImageURL   Field = "imgUrl"
	FieldAuthorName Field = "authorName"
	FieldAuthorImg  Field = "authorImg"
	FieldDetails    Field = "details"
)

// RequiredFields lists every field that must be non-empty before a post
// is accepted for submission.
var RequiredFields = []Field{
	FieldTitle,
	FieldCategory,
	FieldImageURL,
	FieldAuthorName,
	FieldAuthorImg,
	FieldDetails,
}

// Categories is the closed category set. It is owned by this module and
// duplicated nowhere else.
var Categories = []string{
	"Technology",
	"Food",
	"Health",
	"Education",
	"Sports",
	"Travel",
}

// ValidCategory reports whether c is one of the closed category set.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Get returns the value of the named field on p.
func (p Post) Get(f Field) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldCategory:
		return p.Category
	case FieldImageURL:
		return p.ImageURL
	case FieldAuthorName:
		return p.AuthorName
	case FieldAuthorImg:
		return p.AuthorImg
	case FieldDetails:
		return p.Details
	}
	return ""
}

// Set writes value into the named field on p.
func (p *Post) Set(f Field, value string) {
	switch f {
	case FieldTitle:
		p.Title = value
	case FieldCategory:
		p.Category = value
	case FieldImageURL:
		p.ImageURL = value
	case FieldAuthorName:
		p.AuthorName = value
	case FieldAuthorImg:
		p.AuthorImg = value
	case FieldDetails:
		p.Details = value
	}
}

// MissingFields returns the required fields that are empty on p, in
// RequiredFields order.
func (p Post) MissingFields() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if strings.TrimSpace(p.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
