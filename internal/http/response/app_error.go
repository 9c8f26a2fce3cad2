package response

// AppError handler-level error carrying the HTTP status, the client-facing
// message and the wrapped original error
type AppError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the original error
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WrapError builds an AppError
func WrapError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}
