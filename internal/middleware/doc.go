// Package middleware provides the gin middleware chain shared by every route:
// request ids, structured access logging and panic recovery.
package middleware
