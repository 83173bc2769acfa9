package articletext

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	rendererOnce sync.Once
	markdown     goldmark.Markdown
	policy       *bluemonday.Policy
)

func renderer() (goldmark.Markdown, *bluemonday.Policy) {
	rendererOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return markdown, policy
}

// ToHTML converts markdown to HTML, keeping single line breaks, and strips
// anything outside a user-generated-content allow list. The result is safe to
// embed in a page.
func ToHTML(source string) (template.HTML, error) {
	md, sanitizer := renderer()
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
