package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonwraymond/llmguard/tokens"
)

// Keyer generates deterministic cache keys from completion requests.
//
// Contract:
// - Determinism: the same model and messages must produce the same key,
//   regardless of map iteration order inside tool call arguments.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from model and conversation messages.
	Key(model string, messages []tokens.Message) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: llm:<model>:<hash>
// where hash is the first 16 characters of SHA-256(canonical JSON(messages))
func (k *DefaultKeyer) Key(model string, messages []tokens.Message) (string, error) {
	canonical, err := canonicalizeMessages(messages)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize messages: %w", err)
	}

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:8]) // First 8 bytes = 16 hex chars

	return fmt.Sprintf("llm:%s:%s", model, hashStr), nil
}

// canonicalizeMessages produces a deterministic JSON representation of the
// conversation. Struct fields serialize in declaration order; tool call
// argument and metadata maps are sorted by key.
func canonicalizeMessages(messages []tokens.Message) ([]byte, error) {
	result := []byte("[")
	for i, m := range messages {
		if i > 0 {
			result = append(result, ',')
		}

		entry := map[string]any{
			"role":    string(m.Role),
			"content": m.Content,
		}
		if m.Name != "" {
			entry["name"] = m.Name
		}
		if len(m.ToolCalls) > 0 {
			calls := make([]any, len(m.ToolCalls))
			for j, tc := range m.ToolCalls {
				call := map[string]any{"name": tc.Name}
				if len(tc.Arguments) > 0 {
					call["arguments"] = tc.Arguments
				}
				if tc.Result != nil {
					call["output"] = tc.Result.Output
					call["error"] = tc.Result.Error
				}
				calls[j] = call
			}
			entry["tool_calls"] = calls
		}

		entryBytes, err := canonicalize(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, entryBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
