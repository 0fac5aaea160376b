// Package submission implements the form submission pipeline: the tracker
// that rejects re-entrant submits, the payload builder, the JSON endpoint
// client and the state machine that ties validation, UI locking, the remote
// call and user feedback together.
//
// A submit runs Idle → Validating → Locked → Submitting → Settling → Idle.
// Submit never returns an error; every path is reported through Result.
package submission
