package log

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// MaskValue replaces every redacted value.
const MaskValue = "***REDACTED***"

// redactionRules decides which attributes never reach the log output.
type redactionRules struct {
	// keys are attribute names, compared lowercased, that are always masked.
	keys map[string]struct{}

	// keywords mask any attribute whose lowercased name contains one of them.
	// The bare "key" is not a keyword: it matches "monkey" and the series
	// keys logged by the report steps.
	keywords []string

	// values mask a string value regardless of its attribute name.
	values []*regexp.Regexp

	// keep wins over values. Dataset fingerprints are long hex strings
	// that would otherwise look like API keys.
	keep *regexp.Regexp
}

var rules = redactionRules{
	keys: setOf(
		// Request headers
		"authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key",
		// Credentials
		"password", "passwd", "secret", "token", "api_key", "apikey",
		"access_token", "refresh_token", "private_key",
		// Store connection strings
		"dsn", "database_url",
		// Sessions
		"session", "session_id", "sid",
	),
	keywords: []string{"password", "passwd", "secret", "token", "auth", "credential", "private"},
	values: []*regexp.Regexp{
		regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
		regexp.MustCompile(`(?i)^bearer\s+.+`),
		regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
		regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
		regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^:/@\s]+:[^@\s]+@`), // URL with user:password
		regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	},
	keep: regexp.MustCompile(`^[0-9a-f]{32,128}$`),
}

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// sensitiveKey reports whether an attribute name always carries a secret.
func (r redactionRules) sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := r.keys[key]; ok {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// sensitiveValue reports whether a string value looks like a secret.
func (r redactionRules) sensitiveValue(value string) bool {
	if r.keep.MatchString(value) {
		return false
	}
	for _, re := range r.values {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// redactQuery masks the sensitive parameters of a raw query string, such
// as "year=2011&token=abc", and reports whether anything was masked.
// Parameter order and the other parameters are kept as they are.
func (r redactionRules) redactQuery(raw string) (string, bool) {
	params := strings.Split(raw, "&")
	masked := false
	for i, param := range params {
		rawName, _, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		name := rawName
		if unescaped, err := url.QueryUnescape(rawName); err == nil {
			name = unescaped
		}
		if r.sensitiveKey(name) {
			params[i] = rawName + "=" + MaskValue
			masked = true
		}
	}
	if !masked {
		return raw, false
	}
	return strings.Join(params, "&"), true
}

func isSensitiveValue(value string) bool {
	return rules.sensitiveValue(value)
}

// SecureHandler is an slog.Handler that masks credentials before handing
// records to the wrapped handler. An attribute is masked when its name is
// sensitive or its string value looks like a secret; a "query" attribute
// only has its sensitive parameters masked.
//
// Design decision: We wrap a handler instead of providing a logger type so
// the tint, text and JSON handlers all get the same masking and callers keep
// using the plain slog API.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler wraps slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redact(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	switch {
	case a.Value.Kind() == slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case rules.sensitiveKey(a.Key):
		return slog.String(a.Key, MaskValue)
	case a.Value.Kind() != slog.KindString:
		return a
	}

	value := a.Value.String()
	if strings.EqualFold(a.Key, "query") {
		if q, masked := rules.redactQuery(value); masked {
			return slog.String(a.Key, q)
		}
	}
	if rules.sensitiveValue(value) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}
