package review

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports a jump outside [0, size).
	ErrOutOfRange = errors.New("article index out of range")
	// ErrEmptyCatalog reports navigation over a catalog with no articles.
	ErrEmptyCatalog = errors.New("no eligible articles in batch")
)

// FlashKind classifies a one-shot message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a message shown once after an action.
type Flash struct {
	Kind    FlashKind
	Message string
}

// Session is one reviewer's navigation state: the current article, the
// gallery selection and unsaved form drafts. Moving to a different article
// discards the drafts and the selection, whether by navigation or because a
// reload put another article at the current index.
type Session struct {
	id      string
	size    int
	index   int
	article string

	selection int

	startDraft, endDraft string
	hasDateDraft         bool
	noteDraft            string
	hasNoteDraft         bool

	flash *Flash
}

// NewSession starts at the first of size articles.
func NewSession(id string, size int) *Session {
	if size < 0 {
		size = 0
	}
	return &Session{id: id, size: size}
}

// ID identifies the session in logs and the journal.
func (s *Session) ID() string { return s.id }

// Index returns the current article index.
func (s *Session) Index() int { return s.index }

// Size returns the number of articles navigated over.
func (s *Session) Size() int { return s.size }

// Resize adopts a new catalog size, clamping the current index into range.
func (s *Session) Resize(size int) {
	if size < 0 {
		size = 0
	}
	s.size = size
	switch {
	case size == 0:
		s.moveTo(0)
	case s.index >= size:
		s.moveTo(size - 1)
	}
}

// Next advances one article, wrapping from the last to the first.
func (s *Session) Next() (int, error) {
	if s.size == 0 {
		return 0, ErrEmptyCatalog
	}
	s.moveTo((s.index + 1) % s.size)
	return s.index, nil
}

// Previous moves back one article, wrapping from the first to the last.
func (s *Session) Previous() (int, error) {
	if s.size == 0 {
		return 0, ErrEmptyCatalog
	}
	s.moveTo((s.index - 1 + s.size) % s.size)
	return s.index, nil
}

// JumpTo selects article index. The state is unchanged on error.
func (s *Session) JumpTo(index int) error {
	if s.size == 0 {
		return ErrEmptyCatalog
	}
	if index < 0 || index >= s.size {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, index, s.size-1)
	}
	s.moveTo(index)
	return nil
}

func (s *Session) moveTo(index int) {
	if index == s.index {
		return
	}
	s.index = index
	s.article = ""
	s.reset()
}

// Track binds the session to the article now at the current index. A
// different article than the one last tracked drops the drafts and the
// gallery selection.
func (s *Session) Track(articleID string) {
	if s.article != "" && s.article != articleID {
		s.reset()
	}
	s.article = articleID
}

// Article returns the identifier last passed to Track.
func (s *Session) Article() string { return s.article }

func (s *Session) reset() {
	s.selection = 0
	s.startDraft, s.endDraft, s.hasDateDraft = "", "", false
	s.noteDraft, s.hasNoteDraft = "", false
}

// Selection returns the gallery index last chosen for the current article.
func (s *Session) Selection() int { return s.selection }

// Select records the gallery index; rendering clamps it into range.
func (s *Session) Select(index int) { s.selection = index }

// SetDateDraft keeps unsaved date inputs for the current article.
func (s *Session) SetDateDraft(start, end string) {
	s.startDraft, s.endDraft, s.hasDateDraft = start, end, true
}

// DateDraft returns the unsaved date inputs, if any.
func (s *Session) DateDraft() (start, end string, ok bool) {
	return s.startDraft, s.endDraft, s.hasDateDraft
}

// ClearDateDraft drops unsaved date inputs.
func (s *Session) ClearDateDraft() {
	s.startDraft, s.endDraft, s.hasDateDraft = "", "", false
}

// SetNoteDraft keeps an unsaved note for the current article.
func (s *Session) SetNoteDraft(text string) {
	s.noteDraft, s.hasNoteDraft = text, true
}

// NoteDraft returns the unsaved note, if any.
func (s *Session) NoteDraft() (string, bool) {
	return s.noteDraft, s.hasNoteDraft
}

// ClearNoteDraft drops the unsaved note.
func (s *Session) ClearNoteDraft() {
	s.noteDraft, s.hasNoteDraft = "", false
}

// SetFlash queues a message for the next view.
func (s *Session) SetFlash(kind FlashKind, format string, args ...any) {
	s.flash = &Flash{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TakeFlash returns the queued message and clears it.
func (s *Session) TakeFlash() *Flash {
	flash := s.flash
	s.flash = nil
	return flash
}
