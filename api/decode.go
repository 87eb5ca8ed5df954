package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-site/errs"
)

const maxJSONBodySize = 1 << 20

// decodeData reads a {"data": {...}} request body into dst.
func decodeData(w http.ResponseWriter, r *http.Request, payloadName string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	body := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return errs.NewMissingRequiredFieldError("data")
	}
	if err := json.Unmarshal(body.Data, dst); err != nil {
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

// numericIDParam reads a numeric path parameter.
func numericIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}

// optionalRef maps a relation id from a write payload to a column value; 0 clears the relation.
func optionalRef(id uint) any {
	if id == 0 {
		return nil
	}
	return id
}
