package tokens

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a conversation sent to an LLM provider.
// Counting never mutates a Message; callers own the sequence.
type Message struct {
	// Role is the author of the message.
	Role Role

	// Name optionally identifies a specific participant.
	Name string

	// Content is the textual body. May be empty for pure tool-call turns.
	Content string

	// ToolCalls are the tool invocations attached to this message.
	ToolCalls []ToolCall
}

// ToolCall is one tool invocation recorded on a message.
type ToolCall struct {
	// Name is the tool's name.
	Name string

	// Arguments are the invocation arguments, serialized to JSON for
	// counting.
	Arguments map[string]any

	// Result is the tool's outcome, if it has run.
	Result *ToolResult
}

// ToolResult is the outcome of a tool invocation.
type ToolResult struct {
	// Output is the tool's output on success.
	Output string

	// Error is the failure text when the tool failed. When set, Error is
	// counted instead of Output.
	Error string

	// Metadata is optional structured detail, serialized to JSON for
	// counting.
	Metadata map[string]any
}

// Failed reports whether the tool invocation failed.
func (r *ToolResult) Failed() bool {
	return r.Error != ""
}
