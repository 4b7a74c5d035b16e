package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an operation violates a state invariant
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when login credentials don't match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCostLineLocked is returned when mutating a locked cost line
	ErrCostLineLocked = errors.New("cost line is locked")

	// ErrInternalNoAssigned is returned when regenerating an already assigned work order number
	ErrInternalNoAssigned = errors.New("internal number already assigned")

	// ErrDeleteReasonRequired is returned when deleting a numbered work order without a reason
	ErrDeleteReasonRequired = errors.New("delete reason required")

	// ErrReportConfirmed is returned when mutating or re-confirming a confirmed report
	ErrReportConfirmed = errors.New("profit report already confirmed")

	// ErrNoCostBasis is returned when confirming a report with zero cost total
	ErrNoCostBasis = errors.New("cost total must be greater than zero")

	// ErrNoRevenueBasis is returned when confirming with no invoice or final quote amount
	ErrNoRevenueBasis = errors.New("no revenue basis: invoice total or final quote required")

	// ErrFileTooLarge is returned when an upload exceeds the configured size limit
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")

	// ErrUnsupportedFileType is returned when an upload's MIME type is not allowed
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
