// Package llm provides short-form text generation for financial insights and
// the chat assistant. It supports Gemini, OpenAI and Anthropic, with retry
// logic, rate limiting and response caching.
package llm
