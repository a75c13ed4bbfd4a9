package tokens

import (
	"strings"
	"testing"
)

func TestNewCounter_Defaults(t *testing.T) {
	c := NewCounter()

	if c.TokensPerMessage != 3 {
		t.Errorf("TokensPerMessage = %d, want 3", c.TokensPerMessage)
	}
	if c.TokensPerName != 1 {
		t.Errorf("TokensPerName = %d, want 1", c.TokensPerName)
	}
	if c.TokensPerChar != 0.25 {
		t.Errorf("TokensPerChar = %f, want 0.25", c.TokensPerChar)
	}
}

func TestNewCounterWithCoefficients(t *testing.T) {
	c := NewCounterWithCoefficients(5, 2, 0.5)

	if c.TokensPerMessage != 5 || c.TokensPerName != 2 || c.TokensPerChar != 0.5 {
		t.Errorf("coefficients = %d/%d/%f, want 5/2/0.5", c.TokensPerMessage, c.TokensPerName, c.TokensPerChar)
	}

	// Non-positive values fall back to defaults
	d := NewCounterWithCoefficients(0, -1, 0)
	if d.TokensPerMessage != DefaultTokensPerMessage || d.TokensPerName != DefaultTokensPerName || d.TokensPerChar != DefaultTokensPerChar {
		t.Errorf("fallback coefficients = %d/%d/%f, want defaults", d.TokensPerMessage, d.TokensPerName, d.TokensPerChar)
	}
}

func TestCounter_CountString(t *testing.T) {
	c := NewCounter()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"one char rounds up", "a", 1},
		{"four chars", "abcd", 1},
		{"five chars rounds up", "abcde", 2},
		{"eight chars", "abcdefgh", 2},
		{"multibyte counted as runes", "日本語", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CountString(tt.text); got != tt.want {
				t.Errorf("CountString(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCounter_CountString_Monotonic(t *testing.T) {
	c := NewCounter()

	prev := 0
	for i := 0; i <= 64; i++ {
		got := c.CountString(strings.Repeat("x", i))
		if got < prev {
			t.Fatalf("CountString decreased at length %d: %d < %d", i, got, prev)
		}
		prev = got
	}
}

func TestCounter_CountMessage_TextOnly(t *testing.T) {
	c := NewCounter()

	m := Message{Role: RoleUser, Content: "abcdefgh"}
	// 3 message overhead + 1 name overhead + ceil(8*0.25)
	if got := c.CountMessage(m); got != 6 {
		t.Errorf("CountMessage = %d, want 6", got)
	}
}

func TestCounter_CountMessage_EmptyContent(t *testing.T) {
	c := NewCounter()

	m := Message{Role: RoleAssistant}
	if got := c.CountMessage(m); got != 4 {
		t.Errorf("CountMessage(empty) = %d, want 4 (overheads only)", got)
	}
}

func TestCounter_CountMessage_ToolCall(t *testing.T) {
	c := NewCounter()

	m := Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{{
			Name:      "search",
			Arguments: map[string]any{"q": "foo"},
			Result: &ToolResult{
				Output:   "ok",
				Metadata: map[string]any{"ms": 5},
			},
		}},
	}

	// 3 + 1 overheads
	// + 1 tool name
	// + ceil(len(`{"q":"foo"}`)*0.25) = 3 arguments
	// + ceil(len("ok")*0.25) = 1 output
	// + ceil(len(`{"ms":5}`)*0.25) = 2 metadata
	if got := c.CountMessage(m); got != 11 {
		t.Errorf("CountMessage(tool call) = %d, want 11", got)
	}
}

func TestCounter_CountMessage_FailedToolCountsError(t *testing.T) {
	c := NewCounter()

	failed := Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{{
			Name: "search",
			Result: &ToolResult{
				Output: strings.Repeat("x", 400),
				Error:  "boom",
			},
		}},
	}

	// The long Output must not be counted when the call failed:
	// 3 + 1 + 1 + ceil(4*0.25) = 6
	if got := c.CountMessage(failed); got != 6 {
		t.Errorf("CountMessage(failed tool) = %d, want 6", got)
	}
}

func TestCounter_CountMessage_PendingToolCall(t *testing.T) {
	c := NewCounter()

	m := Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{{
			Name:      "search",
			Arguments: map[string]any{"q": "foo"},
		}},
	}

	// No result yet: 3 + 1 + 1 + 3 = 8
	if got := c.CountMessage(m); got != 8 {
		t.Errorf("CountMessage(pending tool) = %d, want 8", got)
	}
}

func TestCounter_CountMessages(t *testing.T) {
	c := NewCounter()

	msgs := []Message{
		{Role: RoleSystem, Content: "abcd"},
		{Role: RoleUser, Content: "abcdefgh"},
	}

	want := c.CountMessage(msgs[0]) + c.CountMessage(msgs[1])
	if got := c.CountMessages(msgs); got != want {
		t.Errorf("CountMessages = %d, want %d", got, want)
	}
	if got := c.CountMessages(nil); got != 0 {
		t.Errorf("CountMessages(nil) = %d, want 0", got)
	}
}

func TestCounter_FitsInLimit(t *testing.T) {
	c := NewCounter()

	msgs := []Message{{Role: RoleUser, Content: "abcd"}} // cost 5

	if !c.FitsInLimit(msgs, 5) {
		t.Error("FitsInLimit(cost, cost) = false, want true")
	}
	if c.FitsInLimit(msgs, 4) {
		t.Error("FitsInLimit(cost, cost-1) = true, want false")
	}
}
