package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"go.uber.org/zap"
)

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	writeJSON(w, logger, statusCode, ErrorResponse{Error: message})
}

// writeErr maps typed errors to status codes.
func writeErr(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	var vErr *types.ValidationError
	if errors.As(err, &vErr) {
		status = http.StatusBadRequest
	}

	writeJSON(w, logger, status, ErrorResponse{Error: err.Error(), Kind: types.ErrorKind(err)})
}

// intParam parses an optional positive integer query parameter within [1, max].
func intParam(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &types.ValidationError{Field: name, Value: raw, Message: "must be an integer"}
	}
	if v < 1 || v > max {
		return 0, &types.ValidationError{
			Field:   name,
			Value:   raw,
			Message: "must be between 1 and " + strconv.Itoa(max),
		}
	}

	return v, nil
}
