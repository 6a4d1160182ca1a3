package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type AuthenticationError struct {
	ErrorMessage
}

type ForbiddenError struct {
	ErrorMessage
}

// ConflictError reports a lost optimistic update, e.g. a schedule cursor that
// moved between read and write.
type ConflictError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

// NewFieldError builds a ValidationError naming the offending field.
func NewFieldError(field, problem string) *ValidationError {
	return NewValidationError(fmt.Sprintf("%s: %s", field, problem))
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
