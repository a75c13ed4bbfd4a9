package resilience

import (
	"errors"
	"regexp"
	"strings"
)

// Coder is implemented by errors that expose a short machine code, such as
// a syscall-style code ("ECONNRESET") or an HTTP status ("503").
type Coder interface {
	ErrorCode() string
}

// Classifier decides whether a failure is transient and safe to retry.
//
// String entries match by exact equality against the failure's code, or by
// case-insensitive substring containment in the failure's message. Pattern
// entries match against the code when one is present, falling back to the
// message otherwise.
type Classifier struct {
	entries  []string
	lowered  []string
	patterns []*regexp.Regexp
}

// NewClassifier creates a classifier from string entries and patterns.
// Entry order is preserved; the first match wins.
func NewClassifier(entries []string, patterns ...*regexp.Regexp) *Classifier {
	lowered := make([]string, len(entries))
	for i, e := range entries {
		lowered[i] = strings.ToLower(e)
	}
	return &Classifier{
		entries:  append([]string(nil), entries...),
		lowered:  lowered,
		patterns: patterns,
	}
}

// status5xx matches any 5xx HTTP status expressed as a 3-digit code.
var status5xx = regexp.MustCompile(`^5\d\d$`)

// DefaultRetryable returns the stock classifier for LLM upstream calls:
// connection resets, timeouts, refusals, broken pipes, unreachable hosts
// and networks, DNS retry hints, any 5xx status code, and the usual
// transient message substrings.
func DefaultRetryable() *Classifier {
	return NewClassifier(
		[]string{
			"ECONNRESET",
			"ETIMEDOUT",
			"ECONNREFUSED",
			"EPIPE",
			"EHOSTUNREACH",
			"ENETUNREACH",
			"EAI_AGAIN",
			"network error",
			"socket hang up",
			"service unavailable",
		},
		status5xx,
	)
}

// Retryable reports whether err is classified as transient.
//
// ErrCircuitOpen is never retryable: a breaker rejection is deterministic
// until the cooldown elapses, so retrying it gains nothing.
func (c *Classifier) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}

	code := errorCode(err)
	msg := err.Error()
	loweredMsg := strings.ToLower(msg)

	for i, entry := range c.entries {
		if code != "" && code == entry {
			return true
		}
		if strings.Contains(loweredMsg, c.lowered[i]) {
			return true
		}
	}

	for _, p := range c.patterns {
		// Code first, message only when no code is available.
		target := code
		if target == "" {
			target = msg
		}
		if p.MatchString(target) {
			return true
		}
	}

	return false
}

// errorCode extracts a machine code from err via the Coder interface.
func errorCode(err error) string {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}
