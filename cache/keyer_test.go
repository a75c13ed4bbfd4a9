package cache

import (
	"strings"
	"testing"

	"github.com/jonwraymond/llmguard/tokens"
)

func conversation() []tokens.Message {
	return []tokens.Message{
		{Role: tokens.RoleSystem, Content: "You are a helpful assistant."},
		{Role: tokens.RoleUser, Content: "What is a circuit breaker?"},
	}
}

// TestKeyer_Deterministic verifies the same request produces the same key.
func TestKeyer_Deterministic(t *testing.T) {
	keyer := NewDefaultKeyer()

	key1, err := keyer.Key("claude-sonnet-4", conversation())
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	key2, err := keyer.Key("claude-sonnet-4", conversation())
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if key1 != key2 {
		t.Errorf("expected identical keys, got %q and %q", key1, key2)
	}
}

// TestKeyer_Format verifies the llm:<model>:<hash> layout.
func TestKeyer_Format(t *testing.T) {
	keyer := NewDefaultKeyer()

	key, err := keyer.Key("claude-sonnet-4", conversation())
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		t.Fatalf("expected 3 colon-separated parts, got %q", key)
	}
	if parts[0] != "llm" || parts[1] != "claude-sonnet-4" {
		t.Errorf("unexpected prefix in %q", key)
	}
	if len(parts[2]) != 16 {
		t.Errorf("expected 16-char hash, got %q", parts[2])
	}

	if err := ValidateKey(key); err != nil {
		t.Errorf("generated key failed validation: %v", err)
	}
}

// TestKeyer_DifferentModels verifies model changes the key.
func TestKeyer_DifferentModels(t *testing.T) {
	keyer := NewDefaultKeyer()

	key1, _ := keyer.Key("claude-sonnet-4", conversation())
	key2, _ := keyer.Key("gpt-4o", conversation())

	if key1 == key2 {
		t.Error("expected different keys for different models")
	}
}

// TestKeyer_DifferentMessages verifies content changes the key.
func TestKeyer_DifferentMessages(t *testing.T) {
	keyer := NewDefaultKeyer()

	key1, _ := keyer.Key("claude-sonnet-4", conversation())
	key2, _ := keyer.Key("claude-sonnet-4", []tokens.Message{
		{Role: tokens.RoleUser, Content: "a different question"},
	})

	if key1 == key2 {
		t.Error("expected different keys for different messages")
	}
}

// TestKeyer_ToolCallArgumentOrder verifies map iteration order in tool call
// arguments does not change the key.
func TestKeyer_ToolCallArgumentOrder(t *testing.T) {
	keyer := NewDefaultKeyer()

	msg := func(args map[string]any) []tokens.Message {
		return []tokens.Message{{
			Role:    tokens.RoleAssistant,
			Content: "calling tool",
			ToolCalls: []tokens.ToolCall{{
				Name:      "search",
				Arguments: args,
			}},
		}}
	}

	// Build maps with the same contents, inserted in different orders.
	a := map[string]any{}
	a["query"] = "breakers"
	a["limit"] = 10
	a["offset"] = 0

	b := map[string]any{}
	b["offset"] = 0
	b["limit"] = 10
	b["query"] = "breakers"

	// Run repeatedly: map iteration order is randomized per lookup.
	for i := 0; i < 20; i++ {
		key1, err := keyer.Key("claude-sonnet-4", msg(a))
		if err != nil {
			t.Fatalf("Key failed: %v", err)
		}
		key2, err := keyer.Key("claude-sonnet-4", msg(b))
		if err != nil {
			t.Fatalf("Key failed: %v", err)
		}
		if key1 != key2 {
			t.Fatalf("expected identical keys regardless of argument order, got %q and %q", key1, key2)
		}
	}
}

// TestKeyer_EmptyMessages verifies an empty conversation still keys.
func TestKeyer_EmptyMessages(t *testing.T) {
	keyer := NewDefaultKeyer()

	key, err := keyer.Key("claude-sonnet-4", nil)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key == "" {
		t.Error("expected non-empty key for empty conversation")
	}
}

// TestKeyer_ToolResultAffectsKey verifies tool results participate in the key.
func TestKeyer_ToolResultAffectsKey(t *testing.T) {
	keyer := NewDefaultKeyer()

	withResult := func(output string) []tokens.Message {
		return []tokens.Message{{
			Role: tokens.RoleAssistant,
			ToolCalls: []tokens.ToolCall{{
				Name:   "search",
				Result: &tokens.ToolResult{Output: output},
			}},
		}}
	}

	key1, _ := keyer.Key("claude-sonnet-4", withResult("result A"))
	key2, _ := keyer.Key("claude-sonnet-4", withResult("result B"))

	if key1 == key2 {
		t.Error("expected different keys for different tool results")
	}
}
