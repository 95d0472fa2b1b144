// Package handler implements the strategy generation endpoint. It validates
// the inbound request, builds the prompt pair, performs the single upstream
// call and maps every failure to its HTTP status and error body.
package handler
