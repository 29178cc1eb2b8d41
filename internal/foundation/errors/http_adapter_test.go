package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "config error", err: ConfigError("bad").Build(), expected: http.StatusBadRequest},
		{name: "reference error", err: ReferenceError("bad").Build(), expected: http.StatusUnprocessableEntity},
		{name: "navigation error", err: NavigationError("bad").Build(), expected: http.StatusUnprocessableEntity},
		{name: "runtime error", err: RuntimeError("bad").Build(), expected: http.StatusServiceUnavailable},
		{name: "unclassified", err: stdErrors.New("x"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.StatusCodeFor(tt.err); got != tt.expected {
				t.Errorf("StatusCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())
	err := ReferenceError("unknown package alias").WithContext("alias", "bogus").Build()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	adapter.WriteErrorResponse(rec, req, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var payload HTTPErrorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &payload); jerr != nil {
		t.Fatalf("decode: %v", jerr)
	}
	if payload.Code != string(CategoryReference) {
		t.Errorf("code = %q", payload.Code)
	}
	if payload.Details["alias"] != "bogus" {
		t.Errorf("details = %v", payload.Details)
	}
	if payload.Retryable {
		t.Error("reference errors are not retryable")
	}
}
