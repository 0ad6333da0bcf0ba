package services

import "errors"

// Kind classifies the expected, caller-recoverable failures of the service
// layer. Transport status codes are assigned in the handlers package; the
// services never see HTTP.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindInvalid
	KindAlreadyFinalized
	KindExpired
	KindEmptyContent
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFound(msg string) error         { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) error        { return &Error{Kind: KindForbidden, Message: msg} }
func invalid(msg string) error          { return &Error{Kind: KindInvalid, Message: msg} }
func alreadyFinalized(msg string) error { return &Error{Kind: KindAlreadyFinalized, Message: msg} }
func expired(msg string) error          { return &Error{Kind: KindExpired, Message: msg} }
func emptyContent(msg string) error     { return &Error{Kind: KindEmptyContent, Message: msg} }

// KindOf returns the Kind carried by err, or KindUnknown for unexpected
// faults (storage failures, programming errors).
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
