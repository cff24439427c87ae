package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ssargent/survex3d/pkg/img3d"
)

// apiKeyMiddleware validates the X-API-Key header. Requests that present a
// key are counted in metrics as accepted or rejected.
func apiKeyMiddleware(expectedKey string, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			ok := subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) == 1
			metrics.RecordAuthRequest(ok)
			if !ok {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DecodeFailure locates a decode error within the uploaded file
type DecodeFailure struct {
	Offset int    `json:"offset"`
	Opcode string `json:"opcode"`
}

// sendDecodeError reports a file that failed to decode with 422. Record
// level failures carry the offset and opcode of the broken record.
func sendDecodeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	response := APIResponse{
		Success: false,
		Error:   fmt.Sprintf("Not a valid 3D v8 file: %v", err),
	}
	var de *img3d.DecodeError
	if errors.As(err, &de) {
		response.Data = DecodeFailure{Offset: de.Offset, Opcode: fmt.Sprintf("0x%02X", de.Opcode)}
	}
	_ = json.NewEncoder(w).Encode(response)
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(response)
}
