package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"skyreview/internal/feedback"
	"skyreview/internal/review"
)

//go:embed templates/page.html
var templateFS embed.FS

// pageData is the template input for one render of the review page.
type pageData struct {
	Batch        string
	View         *review.ArticleView
	Flash        *review.Flash
	Visibilities []feedback.Visibility
	// Problem replaces the article when the catalog cannot be shown.
	Problem string
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.New("page.html").Funcs(template.FuncMap{
		"imageURL": imageURL,
		"plusOne":  func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

// render executes into a buffer first so a template failure never leaves a
// half-written page.
func (p *pageRenderer) render(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func imageURL(articleID, name string) string {
	return "/imagery/" + url.PathEscape(articleID) + "/" + url.PathEscape(name)
}
