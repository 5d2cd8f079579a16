package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/safar/makeup-inventory/internal/models"
)

// MaxLoginAttempts is the number of failed logins after which a session
// locks for good.
const MaxLoginAttempts = 5

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLocked             = errors.New("too many failed attempts, restart the session")
	ErrSessionClosed      = errors.New("session is already authenticated")
)

type State int

const (
	AwaitingCredentials State = iota
	Authenticated
	Locked
)

func (s State) String() string {
	switch s {
	case AwaitingCredentials:
		return "awaiting_credentials"
	case Authenticated:
		return "authenticated"
	case Locked:
		return "locked"
	}
	return "unknown"
}

type Verifier interface {
	Verify(ctx context.Context, username, password string) (*models.User, bool)
}

// Session is one login attempt sequence. Locked is terminal.
type Session struct {
	mu       sync.Mutex
	state    State
	attempts int
	user     *models.User
}

func NewSession() *Session {
	return &Session{state: AwaitingCredentials}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login checks the credentials with v. Empty input is rejected without
// counting an attempt.
func (s *Session) Login(ctx context.Context, v Verifier, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Locked:
		return nil, ErrLocked
	case Authenticated:
		return nil, ErrSessionClosed
	}

	user, ok := v.Verify(ctx, username, password)
	if !ok {
		s.attempts++
		if s.attempts >= MaxLoginAttempts {
			s.state = Locked
		}
		return nil, ErrInvalidCredentials
	}

	s.state = Authenticated
	s.user = user
	return user, nil
}

// Gate keeps one Session per client for the lifetime of the process. A
// successful login closes the client's session so the next login starts
// fresh; a locked session stays locked.
type Gate struct {
	verifier Verifier
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v, sessions: make(map[string]*Session)}
}

func (g *Gate) Login(ctx context.Context, client, username, password string) (*models.User, error) {
	session := g.session(client)

	user, err := session.Login(ctx, g.verifier, username, password)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.sessions[client] == session {
		delete(g.sessions, client)
	}
	g.mu.Unlock()

	return user, nil
}

// State returns the state of client's current session.
func (g *Gate) State(client string) State {
	return g.session(client).State()
}

func (g *Gate) session(client string) *Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[client]
	if !ok {
		s = NewSession()
		g.sessions[client] = s
	}
	return s
}
