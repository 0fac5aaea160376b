package submission

// OutcomeKind tags the result of the remote call.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeBusinessFailure OutcomeKind = "business_failure"
	OutcomeNetworkFailure  OutcomeKind = "network_failure"
)

// Outcome is the settled result of the remote call. Message carries the
// server text for business failures; Err the transport error for network
// failures.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Err     error       `json:"-"`
}

// Success builds a success outcome.
func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// BusinessFailure builds a rejection carrying the server message, which may
// be empty.
func BusinessFailure(message string) Outcome {
	return Outcome{Kind: OutcomeBusinessFailure, Message: message}
}

// NetworkFailure builds a transport failure outcome.
func NetworkFailure(err error) Outcome {
	return Outcome{Kind: OutcomeNetworkFailure, Err: &NetworkError{Err: err}}
}

// Disposition reports how far a submit event got.
type Disposition string

const (
	// DispositionSubmitted means the remote call was made; see Outcome.
	DispositionSubmitted Disposition = "submitted"
	// DispositionDuplicate means another submission of the form was active.
	DispositionDuplicate Disposition = "duplicate"
	// DispositionSpam means the honeypot carried a value.
	DispositionSpam Disposition = "spam"
	// DispositionInvalid means at least one field failed validation.
	DispositionInvalid Disposition = "invalid"
)

// Result describes one submit event.
type Result struct {
	FormID        string      `json:"formId"`
	Disposition   Disposition `json:"disposition"`
	Outcome       Outcome     `json:"outcome"`
	InvalidFields []string    `json:"invalidFields,omitempty"`
}

// Submitted reports whether the remote call was made.
func (r Result) Submitted() bool {
	return r.Disposition == DispositionSubmitted
}

// Succeeded reports whether the remote call settled successfully.
func (r Result) Succeeded() bool {
	return r.Submitted() && r.Outcome.Kind == OutcomeSuccess
}
