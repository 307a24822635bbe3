// Package modelclient provides the LLM transport for the agent loop. It wraps
// the gollm library behind a small Complete interface, classifies provider
// failures into a typed error hierarchy, and retries transient errors with
// exponential backoff.
package modelclient
