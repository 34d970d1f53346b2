package domain

import "fmt"

// InputValidationError covers malformed JDs, too-short descriptions, and bad
// file types. It is surfaced directly to the HTTP caller.
type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("input validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("input validation error: %s", e.Message)
}

// NoMatchError records a mention that the matcher could not resolve, or one
// the disambiguator blocked. It is logged and the mention is dropped; it
// never fails a job.
type NoMatchError struct {
	RawName string
	Reason  string // "no_match" or "disambiguation_blocked"
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for %q: %s", e.RawName, e.Reason)
}

// TransientExternalError wraps a failed LLM or embedding call. No code in
// this repository constructs it: LLM and embedding calls are made once,
// without retry, and their failures are returned as fmt.Errorf-wrapped
// errors.
type TransientExternalError struct {
	Operation string
	Cause     error
}

func (e *TransientExternalError) Error() string {
	return fmt.Sprintf("transient external error during %s: %v", e.Operation, e.Cause)
}

func (e *TransientExternalError) Unwrap() error {
	return e.Cause
}

// ExtractionError wraps a failed call to an extraction collaborator (the
// identity, experience or JD extractor). The call is not retried; the
// error fails the current job.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// PersistenceError wraps a store failure. The core never retries these; they
// bubble to the job executor, which marks the job failed.
type PersistenceError struct {
	Operation string
	Cause     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Operation, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// InvariantViolationError marks a programmer error such as an accumulator
// moving a date backwards, or total_months disagreeing with the band sum.
// The current candidate is aborted and logged; processing continues.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation (%s): %s", e.Invariant, e.Detail)
}
