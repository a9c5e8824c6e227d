// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides whether a navigation attempt may proceed for the
// current session. The login target is always allowed; any other target
// requires a signed-in session, and a signed-out attempt records where the
// user was headed so that a successful login can resume it.
package guard

import "driftwatch/cli/internal/session"

// Action is the outcome of a guard check.
type Action int

const (
	// Allow lets the attempted navigation proceed.
	Allow Action = iota
	// Redirect sends the user to the login target instead.
	Redirect
)

// Target identifies a navigation destination: a command name and the
// arguments it was invoked with.
type Target struct {
	Name string
	Args []string
}

// Decision is the result of Check. RedirectTo is set only for Redirect.
type Decision struct {
	Action     Action
	RedirectTo Target
}

// Guard consults a session to gate navigation. It is a synchronous,
// single-goroutine decision maker with no retries or timeouts.
type Guard struct {
	session *session.Session
	login   string
	landing string
}

// New creates a Guard over the session. loginTarget is the only target
// reachable while signed out; landingTarget is where Resume goes when no
// destination is pending.
func New(s *session.Session, loginTarget, landingTarget string) *Guard {
	return &Guard{session: s, login: loginTarget, landing: landingTarget}
}

// Check gates a navigation attempt. The login target is allowed
// unconditionally. Any other target is allowed when the session is signed
// in; otherwise the attempted destination is recorded (first one wins
// until it is resumed) and the decision is a redirect to login.
func (g *Guard) Check(t Target) Decision {
	if t.Name == g.login {
		return Decision{Action: Allow}
	}
	if g.session.SignedIn() {
		return Decision{Action: Allow}
	}
	if g.session.AttemptedDestination() == nil {
		g.session.SetAttemptedDestination(t)
	}
	return Decision{Action: Redirect, RedirectTo: Target{Name: g.login}}
}

// Resume returns where to go after a successful login: the recorded
// attempted destination when one is pending (clearing it), otherwise the
// default landing target.
func (g *Guard) Resume() Target {
	if d, ok := g.session.TakeAttemptedDestination(); ok {
		if t, ok := d.(Target); ok {
			return t
		}
	}
	return Target{Name: g.landing}
}
