package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skyreview/internal/api"
	"skyreview/internal/catalog"
	"skyreview/internal/config"
	"skyreview/internal/feedback"
	"skyreview/internal/journal"
	"skyreview/internal/review"
	"skyreview/internal/testsupport"
	"skyreview/internal/web"
)

type harness struct {
	cfg     *config.Config
	server  *web.Server
	store   *feedback.Store
	journal *journal.Store
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	batch := cfg.BatchDir()
	testsupport.WriteArticle(t, batch, "a1", testsupport.Descriptor{
		"event_type":      "flood",
		"event_caption":   "River flooding",
		"initial_caption": "Flood reported",
		"coordinates":     "10.5_20.25",
		"location_name":   "Porto Alegre",
		"source":          "planet",
		"sat_timeline": []any{
			testsupport.TimelineEntry(2023, "January", 1, "water rising"),
			testsupport.TimelineEntry(2023, "January", 5, "peak flooding"),
		},
	}, "p_20230101.png", "p_20230105.png", "p_20230110.png")
	testsupport.WriteArticle(t, batch, "a2", testsupport.Descriptor{"event_type": "wildfire"})

	return build(t, cfg)
}

func build(t *testing.T, cfg *config.Config) harness {
	t.Helper()
	var storeOpts []feedback.Option
	var journalStore *journal.Store
	if cfg.Journal.Enabled {
		journalStore = testsupport.MustOpenJournal(t, cfg)
		storeOpts = append(storeOpts, feedback.WithRecorder(journal.NewRecorder(journalStore, "session-1")))
	}
	store := feedback.Open(cfg.FeedbackPath(), nil, storeOpts...)
	svcOpts := []review.Option{}
	if journalStore != nil {
		svcOpts = append(svcOpts, review.WithJournal(journalStore))
	}
	svc := review.NewService(catalog.NewCache(cfg.BatchDir(), nil), store, svcOpts...)
	// The service resizes the session on every render.
	sess := review.NewSession("session-1", 0)
	srv, err := web.New(svc, sess, web.Options{
		Bind:     cfg.Server.Bind,
		APIToken: cfg.Server.APIToken,
		Batch:    cfg.Review.Batch,
		Journal:  journalStore,
	})
	if err != nil {
		t.Fatalf("web.New: %v", err)
	}
	return harness{cfg: cfg, server: srv, store: store, journal: journalStore}
}

func (h harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (h harness) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST %s: expected 303, got %d: %s", target, rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("POST %s: expected redirect to /, got %q", target, loc)
	}
	return rec
}

func TestIndexRendersCurrentArticle(t *testing.T) {
	h := newHarness(t)

	rec := h.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Article 1 of 2: a1",
		"0 of 2 articles fully reviewed",
		"Planet Imagery",
		"Porto Alegre",
		"https://www.google.com/maps/search/?api=1&amp;query=10.5,20.25",
		`src="/imagery/a1/p_20230101.png"`,
		"water rising",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected generated request id header")
	}
}

func TestIndexSelectsGalleryFrame(t *testing.T) {
	h := newHarness(t)

	body := h.get(t, "/?img=2").Body.String()
	if !strings.Contains(body, `src="/imagery/a1/p_20230110.png"`) {
		t.Fatalf("expected third frame selected")
	}
	if !strings.Contains(body, "No caption available") {
		t.Fatalf("expected default caption for uncaptioned date")
	}

	body = h.get(t, "/?img=99").Body.String()
	if !strings.Contains(body, `src="/imagery/a1/p_20230110.png"`) {
		t.Fatalf("expected out-of-range selection to clamp to last frame")
	}
}

func TestVisibilityActionPersistsAndFlashesOnce(t *testing.T) {
	h := newHarness(t)

	h.post(t, "/feedback/visibility", url.Values{"visible": {"yes"}})

	record, ok, err := h.store.Get(context.Background(), "a1")
	if err != nil || !ok {
		t.Fatalf("expected feedback row, ok=%v err=%v", ok, err)
	}
	if record.Visible.Text() != "Yes" {
		t.Fatalf("expected Yes, got %q", record.Visible.Text())
	}

	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, "Saved Yes.") {
		t.Fatalf("expected success flash")
	}
	if !strings.Contains(body, "1 of 2 articles fully reviewed") {
		t.Fatalf("expected progress update")
	}
	if strings.Contains(h.get(t, "/").Body.String(), "Saved Yes.") {
		t.Fatalf("flash should be shown once")
	}

	h.post(t, "/feedback/undo", nil)
	record, _, _ = h.store.Get(context.Background(), "a1")
	if record.Reviewed() {
		t.Fatalf("expected judgment cleared after undo")
	}
}

func TestDatesRejectedWithoutJudgment(t *testing.T) {
	h := newHarness(t)

	h.post(t, "/feedback/dates", url.Values{"start": {"2023-01-02"}, "end": {""}})

	if _, err := os.Stat(h.cfg.FeedbackPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no feedback file, stat err=%v", err)
	}
	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, "Cannot save dates yet") {
		t.Fatalf("expected precondition flash")
	}
	if !strings.Contains(body, `value="2023-01-02"`) {
		t.Fatalf("expected rejected date kept as draft")
	}
}

func TestNavigationActions(t *testing.T) {
	h := newHarness(t)

	h.post(t, "/nav/next", nil)
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "Article 2 of 2: a2") {
		t.Fatalf("expected a2 after next")
	}
	h.post(t, "/nav/next", nil)
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "Article 1 of 2: a1") {
		t.Fatalf("expected wrap to a1")
	}
	h.post(t, "/nav/prev", nil)
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "Article 2 of 2: a2") {
		t.Fatalf("expected wrap back to a2")
	}

	h.post(t, "/nav/jump", url.Values{"index": {"5"}})
	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, "out of range") || !strings.Contains(body, "Article 2 of 2: a2") {
		t.Fatalf("expected out-of-range flash with state untouched")
	}

	h.post(t, "/nav/jump", url.Values{"index": {"abc"}})
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "whole number") {
		t.Fatalf("expected parse error flash")
	}

	h.post(t, "/nav/jump", url.Values{"index": {"0"}})
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "Article 1 of 2: a1") {
		t.Fatalf("expected jump to a1")
	}
}

func TestActionsRequirePost(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/nav/next", "/feedback/visibility", "/reload"} {
		if rec := h.get(t, path); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: expected 405, got %d", path, rec.Code)
		}
	}
	if rec := h.get(t, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestImageryServesCatalogImagesOnly(t *testing.T) {
	h := newHarness(t)

	if rec := h.get(t, "/imagery/a1/p_20230101.png"); rec.Code != http.StatusOK {
		t.Fatalf("expected image served, got %d", rec.Code)
	}
	for _, target := range []string{
		"/imagery/a1/metadata.json",
		"/imagery/a1/missing.png",
		"/imagery/unknown/p_20230101.png",
		"/imagery/a1/..%2Fp_20230101.png",
	} {
		if rec := h.get(t, target); rec.Code == http.StatusOK {
			t.Errorf("GET %s: expected rejection, got 200", target)
		}
	}
}

func TestReloadPicksUpNewArticles(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/")

	testsupport.WriteArticle(t, h.cfg.BatchDir(), "a0", testsupport.Descriptor{"event_type": "storm"})
	h.post(t, "/reload", nil)

	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, "Reloaded 3 articles.") {
		t.Fatalf("expected reload flash")
	}
	if !strings.Contains(body, "of 3") {
		t.Fatalf("expected catalog size 3 after reload")
	}
}

func TestReloadDoesNotCarryDraftsToShiftedArticle(t *testing.T) {
	h := newHarness(t)
	h.post(t, "/feedback/dates", url.Values{"start": {"2023-03-03"}, "end": {"2023-04-04"}})
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, `value="2023-03-03"`) {
		t.Fatalf("expected rejected dates kept as draft on a1")
	}

	testsupport.WriteArticle(t, h.cfg.BatchDir(), "a0", testsupport.Descriptor{"event_type": "storm"})
	h.post(t, "/reload", nil)

	body := h.get(t, "/").Body.String()
	if !strings.Contains(body, "a0") {
		t.Fatalf("expected a0 at the first index after reload")
	}
	if strings.Contains(body, "2023-03-03") || strings.Contains(body, "2023-04-04") {
		t.Fatalf("draft dates from a1 shown on a0")
	}
}

func TestEmptyCatalogPage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := build(t, cfg)

	rec := h.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No eligible articles found in batch 202301.") {
		t.Fatalf("expected empty catalog message")
	}
}

func TestMalformedDescriptorRendersErrorPage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(cfg.BatchDir(), "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	h := build(t, cfg)

	rec := h.get(t, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "broken") {
		t.Fatalf("expected descriptor path in problem text")
	}
}

func TestAPIRequiresToken(t *testing.T) {
	h := newHarness(t, testsupport.WithAPIToken("secret"))

	if rec := h.get(t, "/api/progress"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	for _, header := range []string{"Bearer wrong", "Basic secret", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.server.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" || !strings.Contains(rec.Body.String(), `"error":"unauthorized"`) {
			t.Fatalf("%q: expected JSON challenge, got %q", header, rec.Body.String())
		}
	}
	if rec := h.get(t, "/"); rec.Code != http.StatusOK {
		t.Fatalf("review page should not need the token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.Header.Set("Authorization", "bearer secret")
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	var progress api.Progress
	if err := json.NewDecoder(rec.Body).Decode(&progress); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if progress.Total != 2 || progress.Reviewed != 0 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestAPIFeedbackAndArticles(t *testing.T) {
	h := newHarness(t)
	h.post(t, "/feedback/note", url.Values{"notes": {"hazy"}})

	rec := h.get(t, "/api/feedback")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list api.FeedbackListResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Rows) != 1 || list.Rows[0].ArticleID != "a1" {
		t.Fatalf("unexpected rows %+v", list.Rows)
	}
	if list.Rows[0].Visible != nil {
		t.Fatalf("expected absent visibility as null, got %q", *list.Rows[0].Visible)
	}
	if list.Rows[0].Notes == nil || *list.Rows[0].Notes != "hazy" {
		t.Fatalf("expected notes hazy, got %v", list.Rows[0].Notes)
	}

	rec = h.get(t, "/api/articles")
	var articles api.ArticleListResponse
	if err := json.NewDecoder(rec.Body).Decode(&articles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(articles.Articles) != 2 || !articles.Articles[0].Current || !articles.Articles[0].HasNotes {
		t.Fatalf("unexpected articles %+v", articles.Articles)
	}
}

func TestAPIHistoryFromJournal(t *testing.T) {
	h := newHarness(t, testsupport.WithJournal())
	h.post(t, "/feedback/visibility", url.Values{"visible": {"No"}})
	h.post(t, "/feedback/note", url.Values{"notes": {"cloudy"}})

	rec := h.get(t, "/api/history?article=a1&limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var history api.HistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history.Events) != 1 || history.Events[0].Action != string(feedback.ActionSetNote) {
		t.Fatalf("unexpected history %+v", history.Events)
	}

	if rec := h.get(t, "/api/history?limit=x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
	if body := h.get(t, "/").Body.String(); !strings.Contains(body, "Recent changes") {
		t.Fatalf("expected journal history on page")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	if err := h.server.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.server.Serve(ctx) }()

	resp, err := http.Get("http://" + h.server.Addr() + "/api/progress")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Serve returned %v", err)
	}
}
