// Package observe provides observability primitives for backend LLM calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into their provider
// clients, or bridge it into the resilience package through the Middleware
// retry and breaker hooks.
package observe
