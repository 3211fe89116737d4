package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, missing paths)
	ExitNotFound    = 3 // Document or references not found
	ExitUnsupported = 4 // Publisher not supported by the resolver
	ExitTransport   = 5 // Network failure talking to a backend (retryable)
)
