// Package validation implements the field validator: a required check that
// takes precedence, one shape rule per field role (email, personal name,
// phone, minimum message length) and the required-checkbox override. Check
// is pure; Validate also reflects the verdict onto the field's UI state.
package validation
