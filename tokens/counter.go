package tokens

import (
	"encoding/json"
	"math"
	"unicode/utf8"
)

// Default linear-estimate coefficients. Roughly 4 characters per token for
// English text, plus small fixed overheads per message and per name, in
// line with how chat providers frame messages.
const (
	// DefaultTokensPerMessage is the fixed framing overhead per message.
	DefaultTokensPerMessage = 3

	// DefaultTokensPerName is the overhead for a role or tool name.
	DefaultTokensPerName = 1

	// DefaultTokensPerChar is the estimated tokens per character.
	DefaultTokensPerChar = 0.25
)

// Counter estimates token costs for messages with a linear model. It is
// deliberately not a real tokenizer: the estimate is cheap, deterministic,
// and close enough to keep requests inside a provider's context window.
//
// A Counter holds configuration only and is safe to share across calls.
type Counter struct {
	// TokensPerMessage is the fixed overhead per message.
	TokensPerMessage int

	// TokensPerName is the overhead per role or tool name.
	TokensPerName int

	// TokensPerChar is the estimated tokens per character of text.
	TokensPerChar float64
}

// NewCounter creates a counter with the default coefficients.
func NewCounter() *Counter {
	return &Counter{
		TokensPerMessage: DefaultTokensPerMessage,
		TokensPerName:    DefaultTokensPerName,
		TokensPerChar:    DefaultTokensPerChar,
	}
}

// NewCounterWithCoefficients creates a counter with custom coefficients.
// Non-positive values fall back to the defaults.
func NewCounterWithCoefficients(perMessage, perName int, perChar float64) *Counter {
	if perMessage <= 0 {
		perMessage = DefaultTokensPerMessage
	}
	if perName <= 0 {
		perName = DefaultTokensPerName
	}
	if perChar <= 0 {
		perChar = DefaultTokensPerChar
	}
	return &Counter{
		TokensPerMessage: perMessage,
		TokensPerName:    perName,
		TokensPerChar:    perChar,
	}
}

// CountString estimates the token cost of a string. The empty string
// costs zero; the estimate is monotonically non-decreasing in length.
func (c *Counter) CountString(s string) int {
	if s == "" {
		return 0
	}
	runes := utf8.RuneCountInString(s)
	return int(math.Ceil(float64(runes) * c.TokensPerChar))
}

// CountMessage estimates the token cost of one message: the per-message
// and per-name overheads, the content, and each attached tool call (tool
// name, serialized arguments, output or error text, and serialized
// metadata when present).
func (c *Counter) CountMessage(m Message) int {
	n := c.TokensPerMessage + c.TokensPerName
	n += c.CountString(m.Content)

	for _, tc := range m.ToolCalls {
		n += c.TokensPerName
		n += c.CountString(marshalForCount(tc.Arguments))
		if tc.Result != nil {
			if tc.Result.Failed() {
				n += c.CountString(tc.Result.Error)
			} else {
				n += c.CountString(tc.Result.Output)
			}
			if len(tc.Result.Metadata) > 0 {
				n += c.CountString(marshalForCount(tc.Result.Metadata))
			}
		}
	}

	return n
}

// CountMessages estimates the total token cost of a message sequence.
func (c *Counter) CountMessages(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += c.CountMessage(m)
	}
	return total
}

// FitsInLimit reports whether the sequence fits within the token limit.
func (c *Counter) FitsInLimit(messages []Message, limit int) bool {
	return c.CountMessages(messages) <= limit
}

// marshalForCount serializes a value for counting. Unserializable values
// contribute nothing; that is a caller contract violation, not an error
// this package reports.
func marshalForCount(v map[string]any) string {
	if len(v) == 0 {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
