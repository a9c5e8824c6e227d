// Package errors defines typed errors with categories for user-friendly
// reporting. Kinds are machine readable; messages are for humans. An E
// can wrap an underlying error without losing its kind.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// SignInFailed indicates the remote sign-in was rejected or unreachable.
	SignInFailed Kind = "sign_in_failed"
	// ManifestUnavailable indicates the endpoint manifest could not be fetched.
	ManifestUnavailable Kind = "manifest_unavailable"
	// BridgeFailed indicates the drift bridge stream broke down.
	BridgeFailed Kind = "bridge_failed"
	// SchemaInspectFailed indicates schema inspection against the database failed.
	SchemaInspectFailed Kind = "schema_inspect_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
