package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GregMSThompson/pennyweek/internal/errs"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a single JSON object, rejecting unknown fields. Decoder
// failures surface as validation errors so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is required")
		}
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	if dec.More() {
		return errs.NewValidationError("request body must contain a single JSON object")
	}
	return nil
}
