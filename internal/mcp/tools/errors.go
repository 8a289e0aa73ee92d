package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/source"
	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/document"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeLimitExceeded = "LIMIT_EXCEEDED"
	ErrCodeTimeout       = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapError converts an error from the store, the decoders or the inference
// engine to a coded error. Coded errors pass through unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	switch {
	case errors.Is(err, inference.ErrUnknownType):
		coded = &CodedError{Code: ErrCodeNotFound, Message: "no documents stored under this type name", Cause: err}
	case errors.Is(err, store.ErrLimitExceeded), errors.Is(err, source.ErrTooManyDocuments),
		errors.Is(err, document.ErrTooLarge):
		coded = &CodedError{Code: ErrCodeLimitExceeded, Message: "document limit exceeded", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.Is(err, source.ErrUnsupported):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "unsupported content", Cause: err}
	default:
		// Decode and jq failures describe bad input.
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: err.Error()}
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
