// Package apierr implements the one error shape every HTTP 4xx/5xx
// response uses: {code, message, field?, request_id, timestamp}. It is
// deliberately stdlib-only; no example in the pack maps typed errors to
// JSON, so there is no idiom to borrow beyond the firmware-wide zero-
// allocation jsonw writer used for every other JSON response.
package apierr

import (
	"sync/atomic"
	"time"

	"openenterprise/tinydash/jsonw"
)

// Code is the machine-readable error identifier, one per failure class
// the HTTP surface can produce.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTooLarge     Code = "too_large"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal"
	CodeUnavailable  Code = "unavailable"
	CodeRateLimited  Code = "rate_limited"
)

// Error is a structured HTTP error. Field is optional and omitted from
// the JSON body when empty.
type Error struct {
	Code      Code
	Message   string
	Field     string
	RequestID uint32
	Timestamp time.Time
}

// HTTPStatus maps a Code to the status line the server should send.
func (e Error) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest:
		return 400
	case CodeUnauthorized:
		return 401
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeTooLarge:
		return 413
	case CodeRateLimited:
		return 429
	case CodeUnavailable:
		return 503
	default:
		return 500
	}
}

// WriteJSON appends the error's JSON object to w.
func (e Error) WriteJSON(w *jsonw.Writer) {
	w.ObjectStart()
	w.Key("code")
	w.String(string(e.Code))
	w.Comma()
	w.Key("message")
	w.String(e.Message)
	if e.Field != "" {
		w.Comma()
		w.Key("field")
		w.String(e.Field)
	}
	w.Comma()
	w.Key("request_id")
	w.Uint(uint64(e.RequestID))
	w.Comma()
	w.Key("timestamp")
	w.Int(e.Timestamp.Unix())
	w.ObjectEnd()
}

// requestIDCounter is the per-process monotonic counter backing every
// Error's RequestID. A counter matches the pack's allocation-averse style
// better than pulling in a UUID library, which appears nowhere in it.
var requestIDCounter uint32

// NextRequestID returns the next value in the monotonic sequence,
// starting at 1.
func NextRequestID() uint32 {
	return atomic.AddUint32(&requestIDCounter, 1)
}

// New builds an Error stamped with the next request ID and the given
// time.
func New(code Code, message string, now time.Time) Error {
	return Error{
		Code:      code,
		Message:   message,
		RequestID: NextRequestID(),
		Timestamp: now,
	}
}

// WithField returns a copy of e with Field set, for validation errors
// that name the offending request field.
func (e Error) WithField(field string) Error {
	e.Field = field
	return e
}
