package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "error with details",
			apiError: &APIError{
				Code:    400,
				Message: "Bad Request",
				Details: "Invalid JSON format",
			},
			want: "Bad Request: Invalid JSON format",
		},
		{
			name: "error without details",
			apiError: &APIError{
				Code:    404,
				Message: "Not Found",
			},
			want: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apiError.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBadRequestError(t *testing.T) {
	err := BadRequestError("Invalid input", "Field 'name' is required")

	if err.Code != http.StatusBadRequest {
		t.Errorf("BadRequestError().Code = %v, want %v", err.Code, http.StatusBadRequest)
	}
	if err.Message != "Invalid input" {
		t.Errorf("BadRequestError().Message = %v, want %v", err.Message, "Invalid input")
	}
	if err.Details != "Field 'name' is required" {
		t.Errorf("BadRequestError().Details = %v, want %v", err.Details, "Field 'name' is required")
	}
}

func TestInternalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := InternalError("Failed to fetch containers", cause)

	if err.Code != http.StatusInternalServerError {
		t.Errorf("InternalError().Code = %v, want %v", err.Code, http.StatusInternalServerError)
	}
	if err.Message != "Failed to fetch containers" {
		t.Errorf("InternalError().Message = %v, want %v", err.Message, "Failed to fetch containers")
	}
	if !errors.Is(err, cause) {
		t.Error("InternalError() does not unwrap to its cause")
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		debug      bool
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "api error keeps message",
			err:        BadRequestError("Invalid action", ""),
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"error": "Invalid action"},
		},
		{
			name:       "internal details hidden outside debug",
			err:        InternalError("Failed to fetch services", errors.New("dial unix: no such file")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to fetch services"},
		},
		{
			name:       "internal details shown in debug",
			err:        InternalError("Failed to fetch services", errors.New("dial unix: no such file")),
			debug:      true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Failed to fetch services", "details": "dial unix: no such file"},
		},
		{
			name:       "echo error with message",
			err:        echo.NewHTTPError(http.StatusUnauthorized, "token has expired"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"error": "token has expired"},
		},
		{
			name:       "echo not found",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"error": "Not Found"},
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"error": "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Debug = tt.debug
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			HTTPErrorHandler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("HTTPErrorHandler() status = %v, want %v", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if len(body) != len(tt.wantBody) {
				t.Errorf("HTTPErrorHandler() body = %v, want %v", body, tt.wantBody)
			}
			for k, v := range tt.wantBody {
				if body[k] != v {
					t.Errorf("HTTPErrorHandler() body[%q] = %q, want %q", k, body[k], v)
				}
			}
		})
	}
}
