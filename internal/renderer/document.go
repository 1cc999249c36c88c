package renderer

import (
	"fmt"
	"html/template"
	"strings"
)

// Document renders the view as a standalone HTML page. The article body
// is already sanitizer output, so it is the only field emitted as raw
// markup; everything else goes through html/template escaping.
func (v View) Document() (string, error) {
	var b strings.Builder
	if err := pageTemplate.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"isLoading":  func(k ViewKind) bool { return k == KindLoading },
	"isNotFound": func(k ViewKind) bool { return k == KindNotFound },
	"isArticle":  func(k ViewKind) bool { return k == KindArticle },
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
{{- if isArticle .Kind}}
<title>{{.Article.Title}}</title>
<meta name="description" content="{{.Article.Excerpt}}">
{{- else}}
<title>Blog</title>
{{- end}}
</head>
<body>
{{- if isLoading .Kind}}
<main class="placeholder loading">
<p>Loading blog details...</p>
</main>
{{- else if isNotFound .Kind}}
<main class="placeholder not-found">
<h2>Blog not found</h2>
<p>The blog post you're looking for doesn't exist.</p>
<a href="{{.ListingURL}}">Back to All Blogs</a>
</main>
{{- else}}
<article>
<header>
<img class="cover" src="{{.Article.CoverImageURL}}" alt="{{.Article.Title}}">
<span class="category">{{.Article.Category}}</span>
<h1>{{.Article.Title}}</h1>
<div class="byline">
<img class="avatar" src="{{.Article.AuthorImageURL}}" alt="{{.Article.AuthorName}}">
<p class="author">{{.Article.AuthorName}}</p>
<p class="published">{{.Article.PublishedOn}}</p>
</div>
<nav class="share">
{{- range .Article.ShareLinks}}
<a href="{{.URL}}" rel="noopener" target="_blank" title="Share on {{.Platform}}">{{.Platform}}</a>
{{- end}}
</nav>
</header>
<section class="body">
{{.Article.Body}}
</section>
<footer class="bio">
<img class="avatar" src="{{.Article.AuthorImageURL}}" alt="{{.Article.AuthorName}}">
<h3>Written by {{.Article.AuthorName}}</h3>
<p>Published on {{.Article.PublishedOn}}</p>
</footer>
</article>
<nav class="back"><a href="{{.ListingURL}}">Back to All Blogs</a></nav>
{{- end}}
</body>
</html>
`))
