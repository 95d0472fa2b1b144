// Package brand holds the restaurant profile that callers submit, the prompt
// pair sent to the chat-completion model and the brand strategy it returns.
//
// Profile fields that are missing or falsy fall back to fixed Japanese
// placeholders before they are embedded in the user prompt. The model is
// instructed to answer with a single JSON object carrying the seven
// BrandStrategy keys; ParseStrategy only checks that the answer is JSON.
package brand
