package apperr

import (
	"context"
	"errors"

	"github.com/tuanvumaihuynh/stockdesk/pkg/zerror"
)

const (
	ValidationErrorCode         = "VALIDATION_FAILED"
	TransportErrorCode          = "REMOTE_TRANSPORT_FAILED"
	EnvelopeErrorCode           = "REMOTE_ENVELOPE_ERROR"
	RecordNotFoundCode          = "RECORD_NOT_FOUND"
	UpdateInFlightCode          = "UPDATE_IN_FLIGHT"
	ConfirmationNotFoundCode    = "CONFIRMATION_NOT_FOUND"
	SessionUnavailableErrorCode = "SESSION_UNAVAILABLE"
	RequestCancelledCode        = "REQUEST_CANCELLED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// TransportErr covers network failures and non-2xx responses of the remote service.
	TransportErr = zerror.NewBadGateway(TransportErrorCode, "remote service request failed")
	// EnvelopeErr is a 2xx response whose envelope status is not SUCCESS.
	EnvelopeErr = zerror.NewBadGateway(EnvelopeErrorCode, "remote service returned an error")

	NotFoundErr             = zerror.NewNotFound(RecordNotFoundCode, "record not found")
	UpdateInFlightErr       = zerror.NewConflict(UpdateInFlightCode, "a status update for this order is already in progress")
	ConfirmationNotFoundErr = zerror.NewNotFound(ConfirmationNotFoundCode, "confirmation not found or already resolved")
	SessionUnavailableErr   = zerror.NewUnauthorized(SessionUnavailableErrorCode, "no valid session token available")
	RequestCancelledErr     = zerror.NewServiceUnavailable(RequestCancelledCode, "request was cancelled")
)

const unexpectedErrorMsg = "an unexpected error occurred"

// Message returns the text shown to the user for err. Errors outside the
// taxonomy never leak their Go error string.
func Message(err error) string {
	var zErr zerror.ZError
	switch {
	case errors.As(err, &zErr):
		return zErr.Msg()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return RequestCancelledErr.Msg()
	default:
		return unexpectedErrorMsg
	}
}
