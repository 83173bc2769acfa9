package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// reviewTags are pulled out of the key=value tail and shown right after the
// message as "[article=a1 session=1a2b3c4d request=9f8e7d6c]". Session and
// request identifiers are shortened.
var reviewTags = []struct {
	key   string
	label string
	short bool
}{
	{FieldArticleID, "article", false},
	{FieldSessionID, "session", true},
	{FieldCorrelationID, "request", true},
}

const shortIDLen = 8

// consoleHandler renders one human-readable line per record:
//
//	2026-01-02T15:04:05Z INFO  feedback: row updated [article=a1 session=1a2b3c4d] action=set_visibility
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	fields    []field
	group     string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.fields)+record.NumAttrs())
	fields = append(fields, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.group, attr)
		return true
	})

	var component string
	tags := make(map[string]string, len(reviewTags))
	rest := make([]field, 0, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = f.value.String()
		case FieldArticleID, FieldSessionID, FieldCorrelationID:
			tags[f.key] = f.value.String()
		default:
			rest = append(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, " %-5s ", levelLabel(record.Level))
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	buf.WriteString(strings.TrimSpace(record.Message))
	writeTags(&buf, tags)
	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(valueText(f.value)))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]field(nil), h.fields...)
	for _, attr := range attrs {
		clone.fields = appendField(clone.fields, h.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

func writeTags(buf *bytes.Buffer, tags map[string]string) {
	if len(tags) == 0 {
		return
	}
	buf.WriteString(" [")
	first := true
	for _, tag := range reviewTags {
		value, ok := tags[tag.key]
		if !ok || value == "" {
			continue
		}
		if tag.short && len(value) > shortIDLen {
			value = value[:shortIDLen]
		}
		if !first {
			buf.WriteByte(' ')
		}
		first = false
		buf.WriteString(tag.label)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(value))
	}
	buf.WriteByte(']')
}

func appendField(dst []field, group string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := group
		if attr.Key != "" {
			inner = joinKey(group, attr.Key)
		}
		for _, a := range attr.Value.Group() {
			dst = appendField(dst, inner, a)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	return append(dst, field{key: joinKey(group, attr.Key), value: attr.Value})
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n=\"") {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
