// Package apperr defines the error taxonomy shared by the inventory, allocation and workflow packages
// and its mapping onto gRPC status codes.
package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a business-rule failure. No kind is retried by the core.
type Kind int

const (
	// KindNotFound: request, address or company does not exist.
	KindNotFound Kind = iota + 1
	// KindConflict: address is not in the state the operation expects.
	KindConflict
	// KindBadRequest: missing or invalid input, or a room mismatch.
	KindBadRequest
	// KindUnauthorized: the address or request does not belong to the acting company.
	KindUnauthorized
	// KindAlreadyProcessed: the request is no longer pending.
	KindAlreadyProcessed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindAlreadyProcessed:
		return "already_processed"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; an *Error matches the sentinel of its kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "conflict"}
	ErrBadRequest       = &Error{Kind: KindBadRequest, Message: "bad request"}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrAlreadyProcessed = &Error{Kind: KindAlreadyProcessed, Message: "request already processed"}
)

// Error is a typed business error carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error     { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error     { return newf(KindConflict, format, args...) }
func BadRequest(format string, args ...any) *Error   { return newf(KindBadRequest, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }

// AlreadyProcessed reports a request whose status is no longer pending.
func AlreadyProcessed(requestID, status string) *Error {
	return newf(KindAlreadyProcessed, "request %s already processed (status %s)", requestID, status)
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ToStatus converts err to a gRPC status error. Errors without a kind become codes.Internal.
// Existing status errors pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var e *Error
	if !errors.As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(Code(e.Kind), e.Message)
}

// Code maps a kind to its gRPC code.
func Code(k Kind) codes.Code {
	switch k {
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.Aborted
	case KindBadRequest:
		return codes.InvalidArgument
	case KindUnauthorized:
		return codes.PermissionDenied
	case KindAlreadyProcessed:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
