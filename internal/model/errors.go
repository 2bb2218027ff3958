package model

import "errors"

// Named conditions returned by the session state machines and the answer
// evaluator. Every rejected operation returns one of these and leaves the
// stored state untouched.
var (
	// ErrMalformedAnswerShape means the submitted answer's structural type
	// does not match the question's answer specification. Recoverable:
	// the caller should treat it as a user-correctable input error.
	ErrMalformedAnswerShape = errors.New("malformed answer shape")

	// ErrDuplicateSubmission means the question already has an attempt
	// recorded in this session.
	ErrDuplicateSubmission = errors.New("question already answered in this session")

	// ErrQuestionNotInSession means the question id is not part of the
	// session's fixed question list.
	ErrQuestionNotInSession = errors.New("question is not part of this session")

	// ErrSessionNotActive means the operation is only legal while the
	// session (or exam section) is in an active state.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrAlreadyCompleted means complete was called on a session that has
	// already been completed. The second call has no side effects.
	ErrAlreadyCompleted = errors.New("session already completed")

	// ErrWrongSection means the submission targets a question outside the
	// exam's current section, or no section is currently open.
	ErrWrongSection = errors.New("question is not in the current section")

	// ErrUnknownQuestion means the question lookup could not resolve the
	// id. Fatal to the single operation, not to the session.
	ErrUnknownQuestion = errors.New("unknown question id")
)
