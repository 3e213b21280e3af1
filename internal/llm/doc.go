// Package llm estimates meal macros with a language model. It supports the
// OpenAI and Anthropic APIs behind a shared rate limiter and retry policy.
package llm
