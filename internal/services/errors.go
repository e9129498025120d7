package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error; handlers map it to an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Code is a stable, machine-readable error identifier sent alongside the message.
type Code string

const (
	CodeInternal            Code = "internal_error"
	CodeInvalidInput        Code = "invalid_input"
	CodeInvalidLogin        Code = "invalid_login"
	CodeCredentialRequired  Code = "credential_required"
	CodeInvalidCredential   Code = "invalid_credential"
	CodeAuthFailed          Code = "authentication_failed"
	CodeManagerRequired     Code = "manager_required"
	CodeAccessDenied        Code = "access_denied"
	CodeProfileNotFound     Code = "profile_not_found"
	CodeEmployeeNotFound    Code = "employee_not_found"
	CodeEmployeeRequired    Code = "employee_required"
	CodeUsernameTaken       Code = "username_taken"
	CodeEmailTaken          Code = "email_taken"
	CodeWeakPassword        Code = "weak_password"
	CodeWrongPassword       Code = "wrong_password"
	CodeCannotDeleteSelf    Code = "cannot_delete_self"
	CodeInvalidStatus       Code = "invalid_status"
	CodeInvalidAmount       Code = "invalid_amount"
	CodeRequestNotFound     Code = "request_not_found"
	CodeRosterUnavailable   Code = "roster_unavailable"
	CodeEditNotAllowed      Code = "edit_not_allowed"
	CodeInvalidMonth        Code = "invalid_month"
	CodeInvalidDate         Code = "invalid_date"
	CodeMissingRequiredData Code = "missing_required_fields"
)

// Error is returned by every service operation that fails for a reason the caller should see.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func invalid(code Code, msg string) *Error { return newError(KindInvalid, code, msg) }
func forbidden(code Code, msg string) *Error { return newError(KindForbidden, code, msg) }
func notFound(code Code, msg string) *Error { return newError(KindNotFound, code, msg) }

// internal wraps an unexpected failure; the message is generic on purpose.
func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// ErrManagerRequired is the shared refusal for manager-only operations.
var ErrManagerRequired = forbidden(CodeManagerRequired, "manager access required")

// AsError extracts a *Error, wrapping anything else as internal.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return internal("unexpected", err)
}
