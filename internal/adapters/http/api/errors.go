package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrBackpressure        = errors.New("backpressure")
	ErrNotFound            = errors.New("not found")
	ErrUnavailable         = errors.New("service unavailable")
	ErrInternal            = errors.New("internal error")
	ErrAnalysisUnavailable = errors.New("analysis unavailable, please retry with a clearer image")
)

// kindError ties a handler op to a sentinel kind and an optional cause.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// message is the client-facing text: the kind, plus the cause for client errors.
func (e *kindError) message() string {
	if e.err == nil || e.kind == ErrInternal {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.err.Error()
}

func wrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

func newKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}
