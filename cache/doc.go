// Package cache provides deterministic response caching for completion calls.
//
// It provides a Cache interface with a memory implementation, SHA-256-based
// key derivation over the model and canonical conversation JSON, and TTL
// policies that keep sampled completions out of the cache.
package cache
