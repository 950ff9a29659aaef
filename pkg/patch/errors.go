package patch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

// Kind classifies a failure. The set is closed; switch on it exhaustively.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindValidation
	KindConnectivity
	KindNotFound
	KindNoInputFiles
	KindRuntimeAPI
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindConnectivity:
		return "connectivity"
	case KindNotFound:
		return "not_found"
	case KindNoInputFiles:
		return "no_input_files"
	case KindRuntimeAPI:
		return "runtime_api"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by a patch run.
type Error struct {
	Kind Kind
	// Step is the state-machine step that failed.
	Step Step
	// Subject is the offending value: a path, tag, container reference or endpoint.
	Subject string
	// Status is the runtime's HTTP-equivalent status for KindRuntimeAPI, otherwise 0.
	Status int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(string(e.Step))
	if e.Subject != "" {
		fmt.Fprintf(&b, " %q", e.Subject)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// StepOf returns the failing step recorded in err, or "".
func StepOf(err error) Step {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Step
	}
	return ""
}

// IsBackupNotFound reports whether err means the RESTORE backup image is absent.
func IsBackupNotFound(err error) bool {
	return KindOf(err) == KindNotFound && StepOf(err) == StepFindBackup
}

func newError(kind Kind, step Step, subject string, err error) *Error {
	return &Error{Kind: kind, Step: step, Subject: subject, Err: err}
}

// runtimeError classifies an error returned by a runtime call made during step.
func runtimeError(step Step, subject string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	if client.IsErrConnectionFailed(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindConnectivity, step, subject, err)
	}
	e := newError(KindRuntimeAPI, step, subject, err)
	e.Status = statusOf(err)
	return e
}

// statusOf maps an errdefs class to the status the daemon answered with.
func statusOf(err error) int {
	switch {
	case errdefs.IsNotFound(err):
		return http.StatusNotFound
	case errdefs.IsInvalidParameter(err):
		return http.StatusBadRequest
	case errdefs.IsConflict(err):
		return http.StatusConflict
	case errdefs.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errdefs.IsForbidden(err):
		return http.StatusForbidden
	case errdefs.IsNotModified(err):
		return http.StatusNotModified
	case errdefs.IsNotImplemented(err):
		return http.StatusNotImplemented
	case errdefs.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errdefs.IsSystem(err), errdefs.IsUnknown(err):
		return http.StatusInternalServerError
	default:
		return 0
	}
}
