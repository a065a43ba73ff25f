package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the caller
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation_error"
	KindNotFound      ErrorKind = "not_found"
	KindRejected      ErrorKind = "rejected"
	KindInformational ErrorKind = "informational"
	KindIntegrity     ErrorKind = "integrity_violation"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindForbidden     ErrorKind = "forbidden"
	KindInternal      ErrorKind = "internal_error"
)

// AppError is a typed failure carrying a human-readable message.
// Every core operation reports failures through it.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError with the same kind and message.
// This lets the sentinel values below be used with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewRejectedError(message string) *AppError {
	return &AppError{Kind: KindRejected, Message: message}
}

func NewIntegrityError(message string, cause error) *AppError {
	return &AppError{Kind: KindIntegrity, Message: message, Err: cause}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: cause}
}

// GetAppError extracts an AppError from err
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Kind == kind
}

// Not found
var (
	ErrClientNotFound       = NewNotFoundError("client not found")
	ErrEmployeeNotFound     = NewNotFoundError("employee not found")
	ErrLoanNotFound         = NewNotFoundError("loan not found")
	ErrUnclaimedNotFound    = NewNotFoundError("unclaimed item not found")
	ErrSaleNotFound         = NewNotFoundError("sale not found")
	ErrInterestRateNotFound = NewNotFoundError("interest rate not found")
)

// Loan lifecycle
var (
	ErrLoanMovedToUnclaimed = &AppError{Kind: KindInformational, Message: "item has been moved to unclaimed inventory"}
	ErrLoanAlreadyPaid      = NewRejectedError("loan already paid")
	ErrOnlyOverdueConverts  = NewRejectedError("only overdue loans convert")
	ErrAlreadyConverted     = NewRejectedError("already converted")
	ErrItemAlreadySold      = NewRejectedError("item already sold")
	ErrSellerNotSalesperson = NewRejectedError("seller must be an active sales manager")
)

// Staff
var (
	ErrAdministratorExists      = NewRejectedError("an administrator already exists; only one is allowed")
	ErrCannotDismissAdmin       = NewRejectedError("the administrator cannot be dismissed")
	ErrAdminRoleLocked          = NewRejectedError("the administrator role cannot be reassigned")
	ErrEmployeeAlreadyDismissed = NewRejectedError("employee already dismissed")
	ErrDuplicateLogin           = NewRejectedError("an employee with this login already exists")
	ErrDuplicatePhone           = NewRejectedError("a client or employee with this phone already exists")
)

// Access
var (
	ErrForbidden          = &AppError{Kind: KindForbidden, Message: "you do not have permission to perform this action"}
	ErrInactiveAccount    = &AppError{Kind: KindUnauthorized, Message: "account is inactive"}
	ErrInvalidCredentials = &AppError{Kind: KindUnauthorized, Message: "invalid login or password"}
	ErrCredentialsNotSet  = &AppError{Kind: KindUnauthorized, Message: "login or password is not set for this employee; contact the administrator"}
)
