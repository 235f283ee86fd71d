package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/reading"
	"github.com/vitea/chispa/internal/svcctx"
)

// maxBodyBytes caps request bodies; chat history is the largest payload.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeServiceError maps reading errors onto HTTP statuses.
// Validation failures echo the cause; provider and internal failures answer in
// Papi's voice and keep the details in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := svcctx.LoggerFrom(r.Context())

	switch {
	case reading.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, reading.ErrCardNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, reading.ErrProvider):
		logger.Error("provider call failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, persona.ProviderErrorMessage)
	default:
		logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, persona.InternalErrorMessage)
	}
}
