// Package web serves the review page, its form actions, article imagery and
// a small JSON API over one review session.
//
// Every form action is a POST that mutates the session or the feedback store
// and redirects back to the page, so a reload never repeats a write. Requests
// are serialized over the session with a mutex; the feedback file itself is
// rewritten whole by the store on each change.
package web
