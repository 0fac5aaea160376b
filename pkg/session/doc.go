// Package session binds forms to a page session. A Session owns the
// validator, the notification presenter, the submission tracker and the
// pipeline, and turns blur, input and submit events into calls on them while
// serialising access to each form's fields.
package session
