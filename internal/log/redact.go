package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sensitiveKeys contains attribute keys that should always be masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"x-api-key":     true,
	"token":         true,
	"access_token":  true,
	"password":      true,
	"secret":        true,
	"credential":    true,
	"credentials":   true,
}

// sensitiveKeywords mask any key that contains them. The bare word "key"
// is left out because "cache_key" and "key" (the corpus lookup key) are
// logged routinely.
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "credential", "apikey", "api_key",
}

// sensitivePatterns match credential-shaped values regardless of key name.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI style API keys
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLength is the longest string value, in runes, written
// unchanged. Question text routinely exceeds it.
const DefaultMaxValueLength = 160

// RedactHandler wraps an slog.Handler. It masks credential-like attributes
// and truncates long string values before the record reaches the wrapped
// handler.
type RedactHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler

	// maxLen is the truncation limit in runes; zero disables truncation.
	maxLen int
}

// NewRedactHandler creates a RedactHandler wrapping handler with the default
// truncation limit. If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	return NewRedactHandlerWithLimit(handler, DefaultMaxValueLength)
}

// NewRedactHandlerWithLimit is NewRedactHandler with an explicit truncation
// limit. A limit of zero or less keeps values at full length.
func NewRedactHandlerWithLimit(handler slog.Handler, maxLen int) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen < 0 {
		maxLen = 0
	}
	return &RedactHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes redacted and
// added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// redactAttr redacts a single attribute, recursing into groups.
func (h *RedactHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		if h.maxLen > 0 && utf8.RuneCountInString(s) > h.maxLen {
			return slog.String(a.Key, truncate(s, h.maxLen))
		}
	}

	return a
}

// truncate cuts s to limit runes and notes how many were dropped.
func truncate(s string, limit int) string {
	total := utf8.RuneCountInString(s)
	cut := 0
	for i := range s {
		if cut == limit {
			return fmt.Sprintf("%s...(+%d chars)", s[:i], total-limit)
		}
		cut++
	}
	return s
}

func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text logger that redacts its output.
// Verbose selects Debug level; otherwise only warnings and errors are
// written.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a JSON logger that redacts its output. Useful when
// sync runs under a scheduler that collects structured logs.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, opts)))
}
