package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

const maxBodyBytes = 1 << 20

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,enum"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(r *http.Request, v validator.Validator, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperr.ValidationErr.WithMsg("invalid request body").WrapParent(err)
	}

	if err := v.Validate(dst); err != nil {
		return fmt.Errorf("validate request body: %w", err)
	}

	return nil
}

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var value string
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return "", apperr.ValidationErr.WithMsg(fmt.Sprintf("invalid path parameter %s", name)).WrapParent(err)
	}

	return value, nil
}

// queryParam binds an optional form-style query parameter; dst keeps its
// value when the parameter is absent.
func queryParam(r *http.Request, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		return apperr.ValidationErr.WithMsg(fmt.Sprintf("invalid query parameter %s", name)).WrapParent(err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
