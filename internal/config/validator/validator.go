// Package validator checks a loaded configuration before bootstrap.
package validator

import (
	"fmt"
	"strings"

	"gatehouse/internal/config/schema"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Hint    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult collects every invalid field.
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for i, e := range r.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s", i+1, e.Field, e.Message)
		if e.Value != "" {
			fmt.Fprintf(&sb, " (got %s)", e.Value)
		}
		if e.Hint != "" {
			fmt.Fprintf(&sb, "; %s", e.Hint)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *ValidationResult) AddError(field, value, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message, Hint: hint})
}

// Err returns r as an error, or nil when valid.
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return r
}

// ValidationRule inspects cfg and records problems in result.
type ValidationRule func(cfg *schema.Root, result *ValidationResult)

type Validator struct {
	rules []ValidationRule
}

// NewValidator returns a validator with the default rules.
func NewValidator() *Validator {
	v := &Validator{}
	v.AddRule(validateServer)
	v.AddRule(validateStorage)
	v.AddRule(validateSecurity)
	v.AddRule(validateLog)
	return v
}

func (v *Validator) AddRule(rule ValidationRule) {
	v.rules = append(v.rules, rule)
}

func (v *Validator) Validate(cfg *schema.Root) *ValidationResult {
	result := &ValidationResult{}
	for _, rule := range v.rules {
		rule(cfg, result)
	}
	return result
}

// ValidateConfig runs the default rules.
func ValidateConfig(cfg *schema.Root) *ValidationResult {
	return NewValidator().Validate(cfg)
}

func validateServer(cfg *schema.Root, result *ValidationResult) {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		result.AddError("server.port", fmt.Sprintf("%d", cfg.Server.Port),
			"port must be between 1 and 65535", "e.g. 4000")
	}
}

func validateStorage(cfg *schema.Root, result *ValidationResult) {
	if strings.TrimSpace(cfg.Storage.Drivers) == "" {
		result.AddError("storage.drivers", "", "at least one driver is required",
			"use postgres, redis or embedded-redis")
	}
	if cfg.Storage.Retry.BaseWait <= 0 {
		result.AddError("storage.retry.base_wait", cfg.Storage.Retry.BaseWait.String(),
			"base_wait must be positive", "e.g. 3s")
	}
	if cfg.Storage.Retry.Increment <= 0 {
		result.AddError("storage.retry.increment", cfg.Storage.Retry.Increment.String(),
			"increment must be positive", "e.g. 1s")
	}
	if cfg.Storage.ProbeTimeout <= 0 {
		result.AddError("storage.probe_timeout", cfg.Storage.ProbeTimeout.String(),
			"probe_timeout must be positive", "e.g. 5s")
	}
	if cfg.Storage.HeartbeatInterval < 0 {
		result.AddError("storage.heartbeat_interval", cfg.Storage.HeartbeatInterval.String(),
			"heartbeat_interval must not be negative", "use 0 to disable")
	}
	if cfg.Storage.Redis.DB < 0 || cfg.Storage.Redis.DB > 15 {
		result.AddError("storage.redis.db", fmt.Sprintf("%d", cfg.Storage.Redis.DB),
			"redis.db must be between 0 and 15", "")
	}
}

func validateSecurity(cfg *schema.Root, result *ValidationResult) {
	if cfg.Security.JWT.Secret.IsEmpty() {
		result.AddError("security.jwt.secret", "", "jwt secret is required",
			"set GATEHOUSE_JWT_SECRET")
	}
	if cfg.Security.JWT.Expiry <= 0 {
		result.AddError("security.jwt.expiry", cfg.Security.JWT.Expiry.String(),
			"expiry must be positive", "e.g. 1h")
	}
	if cfg.Security.BcryptCost < 4 || cfg.Security.BcryptCost > 31 {
		result.AddError("security.bcrypt_cost", fmt.Sprintf("%d", cfg.Security.BcryptCost),
			"bcrypt_cost must be between 4 and 31", "")
	}
	if rl := cfg.Security.RateLimit; rl.Enabled {
		if rl.Rate <= 0 {
			result.AddError("security.rate_limit.rate", fmt.Sprintf("%g", rl.Rate), "rate must be positive", "")
		}
		if rl.Burst < 1 {
			result.AddError("security.rate_limit.burst", fmt.Sprintf("%d", rl.Burst), "burst must be at least 1", "")
		}
	}
	if ll := cfg.Security.LoginLock; ll.MaxFailures > 0 && (ll.Window <= 0 || ll.Duration <= 0) {
		result.AddError("security.login_lock", "", "window and duration must be positive when locking is enabled",
			"set max_failures to 0 to disable")
	}
}

func validateLog(cfg *schema.Root, result *ValidationResult) {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result.AddError("log.level", cfg.Log.Level, "invalid log level", "use debug, info, warn or error")
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		result.AddError("log.format", cfg.Log.Format, "invalid log format", "use text or json")
	}
	if strings.EqualFold(cfg.Log.Output, "file") && cfg.Log.File == "" {
		result.AddError("log.file", "", "log.file is required when output is file", "")
	}
}
