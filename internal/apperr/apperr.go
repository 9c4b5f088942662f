// Package apperr defines the tagged errors produced by the generation pipeline.
//
// Every stage returns an *Error whose Kind identifies the stage that failed, so
// the orchestrator and the HTTP layer can map failures without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of pipeline failure.
type Kind string

const (
	KindInvalidRequest   Kind = "INVALID_REQUEST"
	KindTemplateNotFound Kind = "TEMPLATE_NOT_FOUND"
	KindMissingField     Kind = "MISSING_FIELD"
	KindRender           Kind = "RENDER_ERROR"
	KindConversion       Kind = "CONVERSION_ERROR"
	KindDelivery         Kind = "DELIVERY_ERROR"
)

// Error is a pipeline error tagged with its Kind.
type Error struct {
	Kind    Kind
	Field   string // set for KindMissingField
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
// It lets callers write errors.Is(err, apperr.ErrMissingField).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Field == "" && t.Kind == e.Kind
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidRequest   = &Error{Kind: KindInvalidRequest}
	ErrTemplateNotFound = &Error{Kind: KindTemplateNotFound}
	ErrMissingField     = &Error{Kind: KindMissingField}
	ErrRender           = &Error{Kind: KindRender}
	ErrConversion       = &Error{Kind: KindConversion}
	ErrDelivery         = &Error{Kind: KindDelivery}
)

func InvalidRequest(msg string, err error) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg, Err: err}
}

func TemplateNotFound(path string) *Error {
	return &Error{Kind: KindTemplateNotFound, Message: fmt.Sprintf("template not found: %s", path)}
}

func MissingField(key string) *Error {
	return &Error{Kind: KindMissingField, Field: key, Message: fmt.Sprintf("missing required field: %s", key)}
}

func Render(msg string, err error) *Error {
	return &Error{Kind: KindRender, Message: msg, Err: err}
}

func Conversion(msg string, err error) *Error {
	return &Error{Kind: KindConversion, Message: msg, Err: err}
}

func Delivery(msg string, err error) *Error {
	return &Error{Kind: KindDelivery, Message: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
