package leitner

import "errors"

var (
	// ErrInvalidLevel reports a box level outside [1,5].
	ErrInvalidLevel = errors.New("box level must be between 1 and 5")

	// ErrInvalidCount reports a session size other than 5, 10, 15 or 20.
	ErrInvalidCount = errors.New("question count must be 5, 10, 15 or 20")

	// ErrInsufficientQuestions reports a classroom with fewer questions than
	// the requested session size.
	ErrInsufficientQuestions = errors.New("not enough questions in classroom")

	// ErrSessionNotFound reports an unknown session id, or a session owned
	// by a different student.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed reports a mutation on an already finished session.
	ErrSessionClosed = errors.New("session already finished")

	// ErrSessionNotFinished reports a review request on an active session.
	ErrSessionNotFinished = errors.New("session not finished")

	// ErrUnknownQuestion reports an answer for a question that is not part
	// of the session.
	ErrUnknownQuestion = errors.New("question not part of session")

	// ErrUpstreamUnavailable reports a failed collaborator fetch. It is the
	// only error in this package for which a retry makes sense.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
