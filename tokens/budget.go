package tokens

// Default budget shares, as percentages of the context window.
const (
	// DefaultSystemPercent is the share for the system prompt.
	DefaultSystemPercent = 20

	// DefaultHistoryPercent is the share for conversation history.
	DefaultHistoryPercent = 50

	// DefaultUserPercent is the share for the current user message.
	DefaultUserPercent = 20

	// DefaultReservedPercent is the share reserved for the response.
	DefaultReservedPercent = 10
)

// Budget splits a model's context window across the parts of a request:
// system prompt, conversation history, the current user turn, and a
// reserve for the response. Like Counter, a Budget is configuration only
// and safe to share.
type Budget struct {
	// Total is the context window being divided.
	Total int

	// System is the share for the system prompt.
	System int

	// History is the share for conversation history.
	History int

	// User is the share for the current user message.
	User int

	// Reserved is the share held back for response generation.
	Reserved int

	counter *Counter
}

// NewBudget divides a context window with the default shares:
// 20% system, 50% history, 20% user, 10% reserved.
func NewBudget(total int) *Budget {
	return NewBudgetWithShares(total, DefaultSystemPercent, DefaultHistoryPercent, DefaultUserPercent, DefaultReservedPercent)
}

// NewBudgetWithShares divides a context window using relative weights,
// normalized against their sum.
func NewBudgetWithShares(total, system, history, user, reserved int) *Budget {
	sum := system + history + user + reserved
	if sum == 0 {
		sum = 100
	}
	return &Budget{
		Total:    total,
		System:   total * system / sum,
		History:  total * history / sum,
		User:     total * user / sum,
		Reserved: total * reserved / sum,
		counter:  NewCounter(),
	}
}

// NewBudgetForModel divides a model's context window with the default
// shares, looking the window up in ContextLimits.
func NewBudgetForModel(model string) *Budget {
	return NewBudget(ContextLimit(model))
}

// WithCounter returns a copy of the budget using a custom counter.
func (b *Budget) WithCounter(c *Counter) *Budget {
	nb := *b
	nb.counter = c
	return &nb
}

// FitsSystem reports whether the system prompt fits its share.
func (b *Budget) FitsSystem(text string) bool {
	return b.counter.CountString(text) <= b.System
}

// FitsUser reports whether the user message fits its share.
func (b *Budget) FitsUser(m Message) bool {
	return b.counter.CountMessage(m) <= b.User
}

// FitsHistory reports whether the history fits its share.
func (b *Budget) FitsHistory(messages []Message) bool {
	return b.counter.FitsInLimit(messages, b.History)
}

// TrimHistory trims conversation history to its share, preserving the
// most recent messages.
func (b *Budget) TrimHistory(messages []Message) []Message {
	return b.counter.TrimToFit(messages, b.History)
}

// RemainingHistory returns the history budget left after usedTokens.
func (b *Budget) RemainingHistory(usedTokens int) int {
	remaining := b.History - usedTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingTotal returns the tokens left for the request after the given
// usage, always keeping the response reserve intact.
func (b *Budget) RemainingTotal(systemUsed, historyUsed, userUsed int) int {
	used := systemUsed + historyUsed + userUsed + b.Reserved
	remaining := b.Total - used
	if remaining < 0 {
		return 0
	}
	return remaining
}
