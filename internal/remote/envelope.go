package remote

import (
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

// StatusSuccess is the envelope status of a successful response.
const StatusSuccess = "SUCCESS"

// envelope is the {status, data|message} wrapper used by every response of the remote service.
type envelope[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func decodeEnvelope[T any](body []byte) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		var zero T
		return zero, apperr.TransportErr.
			WithMsg("remote service returned a malformed response").
			WrapParent(fmt.Errorf("unmarshal envelope: %w", err))
	}

	if env.Status != StatusSuccess {
		var zero T
		return zero, envelopeError(env.Status, env.Message)
	}

	return env.Data, nil
}

// checkAck accepts any 2xx body unless it is an envelope explicitly reporting a failure.
func checkAck(body []byte) error {
	if len(body) == 0 {
		return nil
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Status == "" || env.Status == StatusSuccess {
		return nil
	}

	return envelopeError(env.Status, env.Message)
}

func envelopeError(status, message string) error {
	if message == "" {
		message = fmt.Sprintf("remote service returned status %q", status)
	}
	return apperr.EnvelopeErr.WithMsg(message)
}
