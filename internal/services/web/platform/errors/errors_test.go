package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid input", err: E(KindInvalidInput, "bad id"), want: http.StatusBadRequest},
		{name: "unauthorized", err: E(KindUnauthorized, "no session"), want: http.StatusUnauthorized},
		{name: "forbidden", err: E(KindForbidden, "owner access required"), want: http.StatusForbidden},
		{name: "unavailable", err: E(KindUnavailable, "roles service down"), want: http.StatusServiceUnavailable},
		{name: "not found", err: E(KindNotFound, "no such project"), want: http.StatusNotFound},
		{name: "unknown kind", err: E(KindUnknown, "boom"), want: http.StatusInternalServerError},
		{name: "untyped", err: stderrors.New("plain"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("outer: %w", E(KindForbidden, "inner")), want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocalizationKey(t *testing.T) {
	err := EK(KindForbidden, " error.web.message.owner_access_required ", "owner access required")
	if got := LocalizationKey(err); got != "error.web.message.owner_access_required" {
		t.Fatalf("LocalizationKey = %q", got)
	}
	if got := LocalizationKey(stderrors.New("plain")); got != "" {
		t.Fatalf("expected empty key for untyped error, got %q", got)
	}
	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("expected empty key for nil error, got %q", got)
	}
}

func TestErrorMessageFallsBackToKind(t *testing.T) {
	err := Error{Kind: KindForbidden}
	if err.Error() != string(KindForbidden) {
		t.Fatalf("Error() = %q", err.Error())
	}
}
