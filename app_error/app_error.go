package app_error

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

var (
	ErrMalformedRecord     = errors.New("malformed record")
	ErrUpstreamUnavailable = errors.New("upstream data provider unavailable")
	ErrNotFound            = errors.New("not found")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrReconcileInProgress = errors.New("reconciliation already in progress")
	ErrUnknownCollection   = errors.New("unknown collection")
)

// IngestError pins a malformed record to its position in the batch.
type IngestError struct {
	Collection string
	Index      int
	Field      string
	Err        error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("%s[%d].%s: %v", e.Collection, e.Index, e.Field, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

func Malformed(collection string, index int, field string) *IngestError {
	return &IngestError{Collection: collection, Index: index, Field: field, Err: ErrMalformedRecord}
}

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

func WithHTTPStatus(err error, status int) error {
	return statusError{error: err, status: status}
}

func HTTPStatus(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return se.status
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownCollection):
		return 404
	case errors.Is(err, ErrReconcileInProgress):
		return 409
	case errors.Is(err, ErrInvalidParameter):
		return 400
	case errors.Is(err, ErrMalformedRecord):
		return 422
	case errors.Is(err, ErrUpstreamUnavailable):
		return 502
	}
	return 500
}

func Respond(c *gin.Context, err error) {
	c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
}
