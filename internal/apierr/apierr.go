// Package apierr maps domain errors onto gRPC codes and HTTP statuses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MsgInternal        = "ErrInternal"
	MsgUnauthenticated = "ErrUnauthenticated"
)

type Rule struct {
	Err       error
	Code      codes.Code
	Status    int
	MessageID string
	// Data supplies template values for MessageID.
	Data func(err error) map[string]any
}

type Table []Rule

// Lookup returns the first rule whose Err matches err.
func (t Table) Lookup(err error) (Rule, bool) {
	for _, r := range t {
		if errors.Is(err, r.Err) {
			return r, true
		}
	}
	return Rule{}, false
}

// GRPC converts err to a status error. Unknown errors become Internal without
// leaking their text.
func (t Table) GRPC(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var v validation.Violations
	if errors.As(err, &v) {
		return status.Error(codes.InvalidArgument, v.Error())
	}
	if r, ok := t.Lookup(err); ok {
		return status.Error(r.Code, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

// IsInternal reports whether err has no rule and would surface as Internal.
func (t Table) IsInternal(err error) bool {
	var v validation.Violations
	if errors.As(err, &v) {
		return false
	}
	_, ok := t.Lookup(err)
	return !ok
}

// Unauthenticated is returned when a call carries no property id.
func Unauthenticated() error {
	return status.Error(codes.Unauthenticated, "missing property")
}

// HTTPStatus maps a rule code to an HTTP status when Status is unset.
func (r Rule) HTTPStatus() int {
	if r.Status != 0 {
		return r.Status
	}
	switch r.Code {
	case codes.InvalidArgument:
		return http.StatusUnprocessableEntity
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
