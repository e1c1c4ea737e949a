package errors

import (
	"errors"
	"fmt"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Error codes of the bot taxonomy.
const (
	CodeLoad      = "E100"
	CodeFetch     = "E300"
	CodeNotFound  = "E404"
	CodeTransport = "E600"
)

const defaultUserMessage = "😿 Something went wrong! Please try again."

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewLoadError reports a missing or malformed menu source. It is fatal at startup.
func NewLoadError(source string, cause error) *AppError {
	return &AppError{
		Code:        CodeLoad,
		Message:     fmt.Sprintf("load menu %s: %s", source, causeText(cause)),
		UserMessage: defaultUserMessage,
		Severity:    SeverityCritical,
		cause:       cause,
	}
}

// NewFetchError reports that no price provider produced a usable answer.
func NewFetchError(cause error) *AppError {
	return &AppError{
		Code:        CodeFetch,
		Message:     fmt.Sprintf("fetch prices: %s", causeText(cause)),
		UserMessage: "😿 Oops! Having trouble fetching data. Please try again later!",
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

// NewNotFoundError reports a token that matches no menu entry for the audience.
func NewNotFoundError(token string) *AppError {
	return &AppError{
		Code:        CodeNotFound,
		Message:     fmt.Sprintf("command not found: %q", token),
		UserMessage: "😿 Command not found! Try /help for available commands.",
		Severity:    SeverityLow,
	}
}

// NewTransportError reports a failed delivery to the chat transport.
func NewTransportError(op string, cause error) *AppError {
	return &AppError{
		Code:     CodeTransport,
		Message:  fmt.Sprintf("telegram %s: %s", op, causeText(cause)),
		Severity: SeverityMedium,
		cause:    cause,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr != nil && appErr.Code == code
}

func causeText(cause error) string {
	if cause == nil {
		return "unknown cause"
	}
	return cause.Error()
}
