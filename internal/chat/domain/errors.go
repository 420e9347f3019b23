package domain

import "errors"

// ErrorCode wire error code
type ErrorCode string

const (
	// CodeInvalidArgument malformed or incomplete payload
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// CodeUnauthenticated event needs an authenticated connection
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// CodePermissionDenied acting for another user
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// CodeUnavailable message service call failed
	CodeUnavailable ErrorCode = "UNAVAILABLE"
	// CodeUnknownAction action not supported
	CodeUnknownAction ErrorCode = "UNKNOWN_ACTION"
)

// WSError typed error sent in an error frame
type WSError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *WSError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// InvalidArgument new INVALID_ARGUMENT error
func InvalidArgument(msg string) *WSError {
	return &WSError{Code: CodeInvalidArgument, Message: msg}
}

var (
	// ErrNotFound message does not exist (or is not owned by the caller)
	ErrNotFound = errors.New("message not found")
	// ErrUnauthenticated connection has no user
	ErrUnauthenticated = &WSError{Code: CodeUnauthenticated, Message: "unauthenticated"}
	// ErrUserMismatch payload acts for a different user than the connection
	ErrUserMismatch = &WSError{Code: CodePermissionDenied, Message: "user does not match the authenticated connection"}
	// ErrAlreadyAuthenticated connection already bound to another user
	ErrAlreadyAuthenticated = &WSError{Code: CodePermissionDenied, Message: "connection already authenticated as another user"}
	// ErrInvalidToken token rejected
	ErrInvalidToken = errors.New("invalid token")
)

// AsWSError map any error to a wire error
func AsWSError(err error) *WSError {
	var wsErr *WSError
	if errors.As(err, &wsErr) {
		return wsErr
	}
	return &WSError{Code: CodeUnavailable, Message: err.Error()}
}
