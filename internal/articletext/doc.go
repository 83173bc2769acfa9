// Package articletext fetches the full markdown text of an article from an
// optional remote source and renders markdown to sanitized HTML.
//
// Remote lookups are best effort. Any failure yields no content and a warning
// log; the review page falls back to the descriptor's article body.
package articletext
