package composer

import (
	"fmt"
	"os"
	"strings"

	"github.com/blogpress-hq/blogpress-client/internal/domain"
	"gopkg.in/yaml.v3"
)

// Draft is a post authored in a YAML file for the composer CLI. The
// editor widget is a black box that emits an HTML string; here that
// string arrives via the details field or a referenced file.
type Draft struct {
	Title      string `yaml:"title"`
	Category   string `yaml:"category"`
	ImageURL   string `yaml:"imgUrl"`
	AuthorName string `yaml:"authorName"`
	AuthorImg  string `yaml:"authorImg"`
	Details    string `yaml:"details"`
	// DetailsFile points at an HTML file to use as the body when Details
	// is empty.
	DetailsFile string `yaml:"details_file"`
	// CoverImageFile / AuthorImageFile are local images to upload; the
	// returned URLs fill imgUrl / authorImg.
	CoverImageFile  string `yaml:"cover_image_file"`
	AuthorImageFile string `yaml:"author_image_file"`
}

// LoadDraft reads and parses a draft file.
func LoadDraft(path string) (Draft, error) {
	if strings.TrimSpace(path) == "" {
		return Draft{}, fmt.Errorf("draft file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("read draft file: %w", err)
	}

	var d Draft
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft file: %w", err)
	}

	if d.Details == "" && d.DetailsFile != "" {
		body, err := os.ReadFile(d.DetailsFile)
		if err != nil {
			return Draft{}, fmt.Errorf("read details file: %w", err)
		}
		d.Details = string(body)
	}

	return d, nil
}

// Apply writes the draft's field values into the form. Image files are
// not uploaded here; the caller drives AttachImage for those.
func (d Draft) Apply(form *Form) error {
	values := map[domain.Field]string{
		domain.FieldTitle:      d.Title,
		domain.FieldCategory:   d.Category,
		domain.FieldImageURL:   d.ImageURL,
		domain.FieldAuthorName: d.AuthorName,
		domain.FieldAuthorImg:  d.AuthorImg,
		domain.FieldDetails:    d.Details,
	}
	for f, v := range values {
		if v == "" {
			continue
		}
		if err := form.SetField(f, v); err != nil {
			return fmt.Errorf("apply draft field %s: %w", f, err)
		}
	}
	return nil
}
