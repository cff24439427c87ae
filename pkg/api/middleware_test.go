package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ssargent/survex3d/pkg/img3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := map[string]struct {
		requestHeader  string
		expectedStatus int
		expectedError  string
	}{
		"valid API key": {
			requestHeader:  "test-key",
			expectedStatus: http.StatusOK,
		},
		"missing API key header": {
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Missing X-API-Key header",
		},
		"invalid API key": {
			requestHeader:  "wrong-key",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid API key",
		},
		"prefix of API key": {
			requestHeader:  "test",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid API key",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})
			handler := apiKeyMiddleware("test-key", nil)(next)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set("X-API-Key", tt.requestHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called)
			if tt.expectedError != "" {
				var resp APIResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	sendSuccess(w, map[string]string{"message": "test"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"message":"test"}}`, w.Body.String())
}

func TestSendError(t *testing.T) {
	tests := map[string]struct {
		message    string
		statusCode int
	}{
		"bad request error":     {message: "Invalid request", statusCode: http.StatusBadRequest},
		"not found error":       {message: "Survey not found", statusCode: http.StatusNotFound},
		"internal server error": {message: "Server error", statusCode: http.StatusInternalServerError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			sendError(w, tt.message, tt.statusCode)

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestAPIKeyMiddleware_RecordsAuthOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	handler := apiKeyMiddleware("test-key", m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, key := range []string{"test-key", "test-key", "wrong-key", ""} {
		req := httptest.NewRequest("GET", "/test", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusError)))
}

func TestSendDecodeError(t *testing.T) {
	t.Run("record failure carries location", func(t *testing.T) {
		w := httptest.NewRecorder()
		sendDecodeError(w, &img3d.DecodeError{Offset: 29, Opcode: 0x0F, Err: img3d.ErrOutOfData})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp struct {
			Success bool          `json:"success"`
			Data    DecodeFailure `json:"data"`
			Error   string        `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, DecodeFailure{Offset: 29, Opcode: "0x0F"}, resp.Data)
		assert.Contains(t, resp.Error, "unexpected end of data")
	})

	t.Run("header failure has no location", func(t *testing.T) {
		w := httptest.NewRecorder()
		sendDecodeError(w, fmt.Errorf("reading header: %w", img3d.ErrBadMagic))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Data)
		assert.Equal(t, "Not a valid 3D v8 file: reading header: not a Survex 3D image file", resp.Error)
	})
}
