package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the version of the response envelope. Clients check it
// before reading data.
const EnvelopeVersion = 1

// APIEnvelope wraps every JSON response.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int       `json:"v"`
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// EnvelopeTransformer is a huma.Transformer wrapping response bodies in an APIEnvelope.
// Raw byte bodies (rendered charts) pass through untouched.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case []byte, APIEnvelope, *APIEnvelope:
		return v, nil
	case *APIError:
		return APIEnvelope{Version: EnvelopeVersion, Error: body}, nil
	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Error:   &APIError{Code: statusToCode(statusFromString(status)), Message: body.Error()},
		}, nil
	}

	if !strings.HasPrefix(status, "2") {
		return APIEnvelope{Version: EnvelopeVersion, Data: v}, nil
	}
	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}

func statusFromString(status string) int {
	n, err := strconv.Atoi(status)
	if err != nil {
		return http.StatusInternalServerError
	}
	return n
}

// writeError writes an enveloped error outside of huma (middleware, chi fallbacks).
func writeError(w http.ResponseWriter, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.status)
	_ = json.NewEncoder(w).Encode(APIEnvelope{Version: EnvelopeVersion, Error: apiErr})
}
