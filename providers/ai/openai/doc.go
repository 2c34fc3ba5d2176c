// Package openai implements [ai.Provider] for vendors speaking the chat
// completions protocol: OpenAI itself ([New]) and xAI's Grok ([NewGrok]).
//
// Both authenticate with a Bearer token, send the system prompt as a leading
// "system" message when it is non-empty, and read the reply from
// choices[0].message.content. Their default HTTP clients allow one hour per
// request so long reasoning replies are not cut off.
//
// Environment variables:
//   - OPENAI_API_BASE_URL: base URL for [New] (default https://api.openai.com/v1)
//   - GROK_API_BASE_URL: base URL for [NewGrok] (default https://api.x.ai/v1)
package openai
