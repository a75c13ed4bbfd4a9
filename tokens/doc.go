// Package tokens estimates and budgets the token cost of LLM requests.
//
// Providers reject requests that exceed a model's context window, so a
// gateway has to know roughly what a message sequence costs before sending
// it. This package provides a cheap linear estimator (a character ratio
// with per-message overheads, not a real tokenizer), a recency-preserving
// trimmer that cuts a conversation down to a budget, and a Budget that
// splits a context window across the parts of a request.
//
// Counting is pure computation: nothing here mutates the caller's
// messages, fails, or suspends.
//
//	counter := tokens.NewCounter()
//	cost := counter.CountMessages(history)
//
//	limit := tokens.ContextLimit("claude-sonnet-4")
//	trimmed := counter.TrimToFit(history, limit)
package tokens
