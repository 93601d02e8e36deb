package errors

import "github.com/cockroachdb/errors"

// Kind classifies a failure reported to the user.
type Kind int

// The closed set of failure kinds. Every user-facing failure carries one.
const (
	// KindUnknown is the zero value; it is never produced by this module.
	KindUnknown Kind = iota

	// KindPrerequisiteMissing means a required external tool is not installed.
	KindPrerequisiteMissing

	// KindPlatformUnsupported means the target platform cannot be built on this host.
	KindPlatformUnsupported

	// KindExternalCommand means a subordinate process failed or exited non-zero.
	KindExternalCommand

	// KindConfigRead means a required project file could not be read.
	KindConfigRead

	// KindConfigParse means a project file exists but is not valid.
	KindConfigParse

	// KindConfigWrite means a project file could not be written.
	KindConfigWrite

	// KindManifestNotFound means a service's plugin manifest is missing.
	KindManifestNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindPrerequisiteMissing: "prerequisite_missing",
	KindPlatformUnsupported: "platform_unsupported",
	KindExternalCommand:     "external_command",
	KindConfigRead:          "config_read",
	KindConfigParse:         "config_parse",
	KindConfigWrite:         "config_write",
	KindManifestNotFound:    "manifest_not_found",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ExitCode maps the kind to a process exit code.
func (k Kind) ExitCode() int {
	switch k {
	case KindExternalCommand, KindConfigWrite:
		return ExitSystem
	default:
		return ExitUser
	}
}

// Error is a classified failure. Message is what the user sees; Context is
// the command tag the failure originated from (e.g. "service", "emulate").
type Error struct {
	Kind    Kind
	Context string
	Message string
	Err     error
}

// E builds a classified error. cause may be nil.
func E(kind Kind, context, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Context: context,
		Message: message,
		Err:     cause,
	}
}

// Error returns the user-facing message, followed by the cause when present.
func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err == nil:
		return e.Message
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ContextOf returns the context tag of the first classified error in err's chain.
func ContextOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Context
	}
	return ""
}

// MessageOf returns the user-facing message of the first classified error in
// err's chain, or err.Error() when there is none.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
