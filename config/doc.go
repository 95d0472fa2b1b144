// Package config loads service configuration from an optional config.yaml and
// the environment. It covers the listen address and timeouts, the upstream
// chat-completion endpoint and its credential, log level and metrics buffering.
package config
