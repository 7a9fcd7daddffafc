package domain

import (
	"errors"
	"fmt"
)

// Error codes for domain errors
const (
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeDuplicateRule     = "DUPLICATE_RULE"
	ErrCodeRuleNotFound      = "RULE_NOT_FOUND"
	ErrCodeConcurrencyMisuse = "CONCURRENCY_MISUSE"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
)

// DomainError is the error type shared across the application.
// Data-level analysis failures (parse errors, rule panics, task timeouts)
// are captured as values inside results and never surface as DomainError;
// only programmer misuse and environment problems do.
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error with the given code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an error for an unknown output format
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates an input validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewDuplicateRuleError is returned when a rule id is registered twice
// without the force flag
func NewDuplicateRuleError(ruleID string) error {
	return NewDomainError(ErrCodeDuplicateRule, fmt.Sprintf("rule already registered: %s", ruleID), nil)
}

// NewRuleNotFoundError is returned when unregistering an unknown rule id
func NewRuleNotFoundError(ruleID string) error {
	return NewDomainError(ErrCodeRuleNotFound, fmt.Sprintf("rule not found: %s", ruleID), nil)
}

// NewConcurrencyMisuseError marks programmer errors in worker pool usage,
// such as re-entrant Execute calls. These are never converted to values.
func NewConcurrencyMisuseError(message string) error {
	return NewDomainError(ErrCodeConcurrencyMisuse, message, nil)
}

// NewFileNotFoundError creates an error for an unreadable input file
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("cannot read file: %s", path), cause)
}

// IsErrorCode reports whether err is a DomainError with the given code
func IsErrorCode(err error, code string) bool {
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
