// Package errors contains helper functions and types to work with errors
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryNoError is used when a handler completes without error.
	CategoryNoError Category = iota
	// CategoryDataError The client sends some invalid data in the request,
	// for example, missing or incorrect query parameters.
	CategoryDataError
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError
)

func (c Category) String() string {
	switch c {
	case CategoryNoError:
		return "CategoryNoError"
	case CategoryDataError:
		return "CategoryDataError"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError represents service specific type that
// is used all over the services.
//
// Message and Details are returned to the client; Err is only logged.
type ServiceError struct {
	Category Category
	Message  string
	Details  string
	Err      error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError checks that provided error is an internal system error
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category < CategoryGeneralError {
		return false
	}
	return true
}

// GeneralError returns a general service error.
// The client sees "Internal server error" with the given safe details;
// err is only logged.
func GeneralError(err error, details string) error {
	if err == nil {
		err = errors.New("internal server error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Internal server error",
		Details:  details,
		Err:      err,
	}
}

// BadRequestError returns an error with category DataError.
// The message provided is returned to the user, the err is logged.
func BadRequestError(err error, message string) error {
	if err == nil {
		err = errors.New("bad request: " + message)
	}
	return &ServiceError{
		Category: CategoryDataError,
		Message:  message,
		Err:      err,
	}
}

// InvalidParamsError returns a DataError carrying validation details for the client
func InvalidParamsError(err error, message, details string) error {
	if err == nil {
		err = errors.New("invalid parameters: " + details)
	}
	return &ServiceError{
		Category: CategoryDataError,
		Message:  message,
		Details:  details,
		Err:      err,
	}
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
