package session

import "errors"

var (
	// ErrNilForm is returned when Bind receives a nil form.
	ErrNilForm = errors.New("session: form is nil")
	// ErrFormBound is returned when a form id is bound twice.
	ErrFormBound = errors.New("session: form already bound")
	// ErrUnknownForm is returned for events targeting an unbound form.
	ErrUnknownForm = errors.New("session: unknown form")
	// ErrUnknownField is returned for events targeting a missing field.
	ErrUnknownField = errors.New("session: unknown field")
)
