// Package provider names the capabilities published in the core pool.
package provider

const (
	Log         = "Log"
	ApiError    = "ApiError"
	Hasher      = "Hasher"
	Tokens      = "Tokens"
	Validator   = "Validator"
	Config      = "Config"
	Storage     = "Storage"
	LoginGuard  = "LoginGuard"
	RateLimiter = "RateLimiter"
)
