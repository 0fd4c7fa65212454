package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
)

type confirmationHandler struct {
	confirmations Confirmations
}

func newConfirmationHandler(confirmations Confirmations) *confirmationHandler {
	return &confirmationHandler{
		confirmations: confirmations,
	}
}

func (h *confirmationHandler) GetConfirmation(w http.ResponseWriter, r *http.Request) error {
	token, err := pathParam(r, "token")
	if err != nil {
		return err
	}

	confirmation, ok := h.confirmations.Get(token)
	if !ok {
		return apperr.ConfirmationNotFoundErr
	}

	return writeJSON(w, http.StatusOK, confirmation)
}

// Confirm runs the pending action. On failure the confirmation stays pending
// and can be confirmed again or cancelled.
func (h *confirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) error {
	token, err := pathParam(r, "token")
	if err != nil {
		return err
	}

	if err := h.confirmations.Confirm(r.Context(), token); err != nil {
		return fmt.Errorf("confirm %s: %w", token, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *confirmationHandler) Cancel(w http.ResponseWriter, r *http.Request) error {
	token, err := pathParam(r, "token")
	if err != nil {
		return err
	}

	if err := h.confirmations.Cancel(token); err != nil {
		return fmt.Errorf("cancel %s: %w", token, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
