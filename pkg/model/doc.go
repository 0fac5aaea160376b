// Package model defines the document model the pipeline mutates: forms, their
// fields, the submit control and the notification severities. Types live in
// internal/model and are re-exported here. A Field carries both its declared
// attributes (name, type, tag, required) and the UI state the validator owns
// (validity, the `is-invalid` class and a feedback element created once and
// reused). Fields are classified into a closed set of roles (email, personal
// name, phone, message, generic) that key the validator's rule table. The
// honeypot field (`website`) is part of the model so renderers can emit it,
// but SubmittableFields never returns it.
package model
