package auth

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"anyboard/internal/core/sessions"
)

const minPasswordLength = 6

// Provider implements email/password authentication. It owns the auth
// state: sign-in creates a session (persisted plus mirrored in memory),
// sign-out ends it, and every change is emitted on the auth-state stream
// that the session store subscribes to.
type Provider struct {
	users    UserRepository
	sessions SessionRepository
	issuer   *TokenIssuer

	mu      sync.Mutex
	active  map[string]*sessions.Session
	subs    map[int]func(sessions.Event)
	nextSub int
}

// NewProvider creates a Provider and restores persisted sessions so that
// identities signed in before a restart resolve immediately.
func NewProvider(ctx context.Context, users UserRepository, sessionRepo SessionRepository, issuer *TokenIssuer) (*Provider, error) {
	restored, err := sessionRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore sessions: %w", err)
	}

	active := make(map[string]*sessions.Session, len(restored))
	for _, s := range restored {
		active[s.Token] = s
	}
	if len(restored) > 0 {
		log.Printf("[AUTH] Restored %d active session(s)", len(restored))
	}

	return &Provider{
		users:    users,
		sessions: sessionRepo,
		issuer:   issuer,
		active:   active,
		subs:     make(map[int]func(sessions.Event)),
	}, nil
}

// SignUpWithEmail registers a new account. It does not sign the account in;
// the client signs in afterwards, as the app does.
func (p *Provider) SignUpWithEmail(ctx context.Context, email, password, displayName string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[AUTH] Account created: %s", user.UID)
	return user, nil
}

// SignInWithEmail verifies credentials, starts a session, and returns the
// session together with its signed bearer token. The new session is emitted
// on the auth-state stream.
func (p *Provider) SignInWithEmail(ctx context.Context, email, password string) (*sessions.Session, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", ErrMissingPassword
	}

	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrWrongPassword
	}

	now := time.Now().UTC()
	session := &sessions.Session{
		Token:       uuid.NewString(),
		UID:         user.UID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		CreatedAt:   now,
		ExpiresAt:   now.Add(p.issuer.TTL()),
	}

	if err := p.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to persist session: %w", err)
	}

	signed, err := p.issuer.Issue(session)
	if err != nil {
		return nil, "", err
	}

	p.mu.Lock()
	p.active[session.Token] = session
	p.mu.Unlock()
	p.emit(sessions.Event{Token: session.Token, Session: session})

	log.Printf("[AUTH] Signed in: %s", user.UID)
	return session, signed, nil
}

// SignOut ends the session behind token and emits the change. State is only
// cleared after the session repository confirms the delete, so a failed
// sign-out leaves the session intact.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if err := p.sessions.Delete(ctx, token); err != nil {
		return err
	}

	p.mu.Lock()
	session := p.active[token]
	delete(p.active, token)
	p.mu.Unlock()

	p.emit(sessions.Event{Token: token, Session: nil})
	if session != nil {
		log.Printf("[AUTH] Signed out: %s", session.UID)
	}
	return nil
}

// SubscribeAuthState registers fn on the auth-state stream and returns an
// unsubscribe function. Current sessions are emitted synchronously before
// SubscribeAuthState returns (the initial resolution).
func (p *Provider) SubscribeAuthState(fn func(sessions.Event)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	current := make([]*sessions.Session, 0, len(p.active))
	for _, s := range p.active {
		current = append(current, s)
	}
	p.mu.Unlock()

	for _, s := range current {
		fn(sessions.Event{Token: s.Token, Session: s})
	}

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// VerifyToken validates a bearer token's signature and expiry and returns
// its claims. Revocation is the session store's concern, keyed by jti.
func (p *Provider) VerifyToken(tokenString string) (*Claims, error) {
	return p.issuer.Verify(tokenString)
}

func (p *Provider) emit(ev sessions.Event) {
	p.mu.Lock()
	fns := make([]func(sessions.Event), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func validateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrMissingPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
