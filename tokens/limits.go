package tokens

// ContextLimits maps model identifiers to context window sizes.
var ContextLimits = map[string]int{
	// Anthropic
	"claude-opus-4":     200000,
	"claude-sonnet-4":   200000,
	"claude-3.5-sonnet": 200000,
	"claude-3.5-haiku":  200000,

	// OpenAI
	"gpt-4o":      128000,
	"gpt-4o-mini": 128000,
	"gpt-4-turbo": 128000,
	"o1":          200000,

	// Google
	"gemini-1.5-pro":   2000000,
	"gemini-1.5-flash": 1000000,

	// Conservative fallback
	"default": 100000,
}

// ContextLimit returns the context window for a model, or the default
// fallback when the model is unknown.
func ContextLimit(model string) int {
	if limit, ok := ContextLimits[model]; ok {
		return limit
	}
	return ContextLimits["default"]
}
