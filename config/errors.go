package config

import (
	"fmt"
	"strings"
)

// MissingFieldError reports a required field (or a whole section, when Field
// is empty) that is absent and has no default.
type MissingFieldError struct {
	Domain string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("missing required section [%s]", e.Domain)
	}

	return fmt.Sprintf("[%s] missing required field %q", e.Domain, e.Field)
}

// InvalidEnumError reports a value outside of the supported set, such as an
// unknown system model or DRAM speed grade.
type InvalidEnumError struct {
	Domain    string
	Field     string
	Value     string
	Supported []string
}

func (e *InvalidEnumError) Error() string {
	msg := fmt.Sprintf("[%s] unsupported %s %q", e.Domain, e.Field, e.Value)
	if len(e.Supported) > 0 {
		msg += " (supported: " + strings.Join(e.Supported, ", ") + ")"
	}

	return msg
}

// DerivationError reports a value that cannot be fed into a derivation
// formula, e.g. a non-numeric cache size.
type DerivationError struct {
	Domain string
	Field  string
	Value  string
	Reason string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("[%s] cannot derive from %s = %q: %s",
		e.Domain, e.Field, e.Value, e.Reason)
}
