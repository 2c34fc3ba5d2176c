// Package gemini implements [ai.Provider] for Google's generateContent API.
//
// The credential is passed as the "key" query parameter. Transcript roles
// collapse to "user" and "model", and a non-empty system prompt is sent as
// systemInstruction. The reply is candidates[0].content.parts[0].text.
//
// [New] reads GEMINI_API_BASE_URL from the environment.
package gemini
