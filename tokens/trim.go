package tokens

// TrimToFit returns the suffix of messages that fits within limit.
//
// The walk starts at the most recent message and moves backward, greedily
// including each message while the running total stays within limit. It
// stops at the first older message that would overflow the remaining
// budget; it does not skip past it looking for a smaller message further
// back. That keeps the result a contiguous, recency-biased suffix rather
// than an optimal pack, which is the point: dropping a message from the
// middle of a conversation is worse than dropping everything before it.
//
// The result preserves chronological order and shares no backing array
// with the input. An empty input, or a limit below the cost of the most
// recent message, yields an empty result.
func (c *Counter) TrimToFit(messages []Message, limit int) []Message {
	total := 0
	start := len(messages)

	for i := len(messages) - 1; i >= 0; i-- {
		cost := c.CountMessage(messages[i])
		if total+cost > limit {
			break
		}
		total += cost
		start = i
	}

	out := make([]Message, len(messages)-start)
	copy(out, messages[start:])
	return out
}
