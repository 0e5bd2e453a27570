package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrStatusNotOK is returned when http response had status differen than 200 OK.
	ErrStatusNotOK = errors.New("response status is not 200 OK")
	// ErrContentTypeNotSupported is returned when response content type is not supported.
	ErrContentTypeNotSupported = errors.New("response content type not supported")
)

// StatusError is returned when http response had status different than 200 OK.
// It matches ErrStatusNotOK.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: got %d", ErrStatusNotOK, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrStatusNotOK
}
