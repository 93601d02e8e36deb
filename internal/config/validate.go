package config

import (
	"net"
	"strings"

	"github.com/thoreinstein/ionx/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrEmptyCommand indicates a tool command line is blank.
	ErrEmptyCommand = errors.New("command must not be empty")

	// ErrInvalidPort indicates a port outside 1-65535.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")

	// ErrInvalidAddress indicates a serve address that is neither an IP nor a host name.
	ErrInvalidAddress = errors.New("invalid address")
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if strings.TrimSpace(cfg.Bower.Command) == "" {
		errs = append(errs, &FieldError{Field: KeyBowerCommand, Err: ErrEmptyCommand})
	}
	if strings.TrimSpace(cfg.Cordova.Command) == "" {
		errs = append(errs, &FieldError{Field: KeyCordovaCommand, Err: ErrEmptyCommand})
	}

	for key, port := range map[string]int{
		KeyServePort:           cfg.Serve.Port,
		KeyServeLiveReloadPort: cfg.Serve.LiveReloadPort,
	} {
		if port < 1 || port > 65535 {
			errs = append(errs, &FieldError{Field: key, Err: ErrInvalidPort})
		}
	}

	for key, addr := range map[string]string{
		KeyServeAddress:         cfg.Serve.Address,
		KeyServePlatformAddress: cfg.Serve.PlatformAddress,
	} {
		if addr != "" && !validAddress(addr) {
			errs = append(errs, &FieldError{Field: key, Value: addr, Err: ErrInvalidAddress})
		}
	}

	return errs
}

func validAddress(addr string) bool {
	if net.ParseIP(addr) != nil || addr == "localhost" {
		return true
	}
	if strings.ContainsAny(addr, " /:\x00") {
		return false
	}
	return strings.Contains(addr, ".")
}

// FieldError represents an error for a specific config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
