// Package upstream calls the third-party chat-completion API.
//
// Exactly one HTTP request is made per Complete call: SDK retries are disabled
// and no fallback model exists. Non-2xx answers surface as *StatusError
// carrying the raw response body so callers can report it verbatim.
package upstream
