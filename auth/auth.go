// Package auth carries the identity shape handed out by the authentication
// collaborator.  BezaSpace never authenticates anyone itself; it reacts to
// identity changes delivered on a channel, which keeps every consumer
// injectable with a fake stream in tests.
package auth

// Identity is a signed-in user as reported by the identity provider.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}
