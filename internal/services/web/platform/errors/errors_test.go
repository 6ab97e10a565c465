package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	domainerrors "github.com/louisbranch/talevortex/internal/platform/errors"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{E(KindInvalidInput, "bad"), http.StatusBadRequest},
		{E(KindUnauthorized, "who"), http.StatusUnauthorized},
		{E(KindForbidden, "no"), http.StatusForbidden},
		{E(KindUnavailable, "down"), http.StatusServiceUnavailable},
		{E(KindNotFound, "gone"), http.StatusNotFound},
		{E(KindUnknown, "odd"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHTTPStatusUsesDomainCodes(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", domainerrors.New(domainerrors.CodeStoryNotOwned, "story not found"))
	if got := HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, http.StatusNotFound)
	}
	err = domainerrors.New(domainerrors.CodeUnitNameTaken, "taken")
	if got := HTTPStatus(err); got != http.StatusConflict {
		t.Fatalf("status = %d, want %d", got, http.StatusConflict)
	}
}

func TestErrorStringFallsBackToKind(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindForbidden}).Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, KindForbidden)
	}
}

func TestMessageKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKey  string
		wantArgs []string
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "web", err: EK(KindInvalidInput, " error.form_invalid ", "bad form"), wantKey: "error.form_invalid"},
		{
			name:     "domain with name",
			err:      domainerrors.WithMetadata(domainerrors.CodeUnitNameTaken, "taken", map[string]string{"Name": "Sword"}),
			wantKey:  "error.unit_name_taken",
			wantArgs: []string{"Sword"},
		},
		{
			name:    "wrapped domain",
			err:     fmt.Errorf("outer: %w", domainerrors.New(domainerrors.CodeTextGenerationFailed, "down")),
			wantKey: "error.text_generation_failed",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			key, args := MessageKey(tc.err)
			if key != tc.wantKey {
				t.Fatalf("key = %q, want %q", key, tc.wantKey)
			}
			if diff := cmp.Diff(tc.wantArgs, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
