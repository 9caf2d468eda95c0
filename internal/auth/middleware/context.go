package auth

import "context"

type subjectKey struct{}

// WithSubject stores the authenticated user id on the context. The JWT
// middleware calls it after validating a token; handler tests call it to
// stand in for a logged-in user.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the user id planted by WithSubject, or ""
// when the request carries no authenticated subject.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
