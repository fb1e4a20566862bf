// Package session exposes who is signed in. The project page only reads the
// current Session and reacts to changes; signing in happens elsewhere (the
// login modal, or configuration at startup).
package session

import (
	"arcai/internal/state"
)

// Status is the authentication state of a session.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// User identifies the signed-in principal. Secret is the credential passed to
// the project API and must never be logged.
type User struct {
	Name   string
	Secret string
}

// String never includes the secret.
func (u User) String() string {
	if u.Secret == "" {
		return u.Name
	}
	return u.Name + " (secret set)"
}

// Session is a snapshot of the authentication state.
type Session struct {
	Status Status
	User   *User
}

// Secret returns the user's secret, or "" when there is none.
func (s Session) Secret() string {
	if s.User == nil {
		return ""
	}
	return s.User.Secret
}

// Provider supplies the current session and change notifications.
type Provider interface {
	Current() Session
	Subscribe(fn func(Session)) (unsubscribe func())
}

// Static is an in-process Provider whose session is changed explicitly.
type Static struct {
	box *state.ObjectState[Session]
}

// NewStatic returns a provider that starts in the loading status.
func NewStatic() *Static {
	return &Static{box: state.New(Session{Status: StatusLoading})}
}

// NewStaticWith returns a provider already holding s.
func NewStaticWith(s Session) *Static {
	p := NewStatic()
	p.box.Set(s)
	return p
}

// Current returns the current session.
func (p *Static) Current() Session { return p.box.Value() }

// Subscribe registers fn for every session change.
func (p *Static) Subscribe(fn func(Session)) func() { return p.box.Subscribe(fn) }

// SignIn marks the session authenticated as u.
func (p *Static) SignIn(u User) {
	p.box.Set(Session{Status: StatusAuthenticated, User: &u})
}

// SignOut marks the session unauthenticated.
func (p *Static) SignOut() {
	p.box.Set(Session{Status: StatusUnauthenticated})
}

// Resolve settles a loading session: authenticated as u when u has a secret
// or a name, unauthenticated otherwise.
func (p *Static) Resolve(u User) {
	if u.Name == "" && u.Secret == "" {
		p.SignOut()
		return
	}
	p.SignIn(u)
}
