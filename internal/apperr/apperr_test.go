package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf_WrappedChain(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := fmt.Errorf("sending message: %w", Dependency("relay publish", cause))

	if got := KindOf(err); got != KindDependency {
		t.Fatalf("KindOf = %v, want KindDependency", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through chain")
	}
}

func TestKindOf_Unknown(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Fatalf("KindOf = %v, want KindInternal", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{Validation("duplicate"), http.StatusBadRequest},
		{Authentication("invalid or expired session"), http.StatusUnauthorized},
		{Authorization("not a member"), http.StatusForbidden},
		{NotFound("channel"), http.StatusNotFound},
		{State("channel locked"), http.StatusConflict},
		{Dependency("relay", errors.New("down")), http.StatusBadGateway},
		{Crypto("open failed", nil), http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPartial(t *testing.T) {
	t.Parallel()

	var p *Partial
	err := fmt.Errorf("create channel: %w", &Partial{Msg: "invites", Failed: []string{"u2", "u3"}})

	if !errors.As(err, &p) {
		t.Fatalf("errors.As failed for Partial")
	}
	if len(p.Failed) != 2 || p.Failed[0] != "u2" {
		t.Fatalf("unexpected failed list: %v", p.Failed)
	}
	if got := KindOf(err); got != KindPartial {
		t.Fatalf("KindOf = %v, want KindPartial", got)
	}
}
