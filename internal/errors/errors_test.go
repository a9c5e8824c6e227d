package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "without cause",
			err:  New(ManifestUnavailable, "server unreachable"),
			want: "manifest_unavailable: server unreachable",
		},
		{
			name: "with cause",
			err:  Wrap(BridgeFailed, "failed to dial bridge", stderrors.New("connection refused")),
			want: "bridge_failed: failed to dial bridge: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Wrap(SignInFailed, "sign-in request failed", cause)

	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is does not reach the wrapped cause")
	}

	var e *E
	if !stderrors.As(wrapped, &e) {
		t.Fatal("errors.As failed to extract *E")
	}
	if e.Kind != SignInFailed {
		t.Errorf("Kind = %q, want %q", e.Kind, SignInFailed)
	}
}

func TestNewHasNoCause(t *testing.T) {
	e := New(SchemaInspectFailed, "inspection failed")
	if e.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", e.Unwrap())
	}
}
