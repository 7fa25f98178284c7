// Package identity is an in-memory identity collaborator. It keeps one
// signed-in principal per broker and publishes every transition on an event
// channel.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidEmail       = errors.New("email is not valid")
)

type account struct {
	userID string
	email  string
	hash   []byte
}

type Broker struct {
	mu       sync.Mutex
	accounts map[string]*account // email -> account
	current  *domain.Identity
	closed   bool

	events chan domain.IdentityEvent
	logger *slog.Logger
}

// NewBroker creates a broker whose event channel holds up to buffer
// undelivered events; publishing blocks when it is full.
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Broker{
		accounts: make(map[string]*account),
		events:   make(chan domain.IdentityEvent, buffer),
		logger:   logger,
	}
}

func (b *Broker) Events() <-chan domain.IdentityEvent {
	return b.events
}

func (b *Broker) Current() *domain.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()

	return cloneIdentity(b.current)
}

// SignUp registers an account. It does not sign the user in.
func (b *Broker) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Identity{}, err
	}
	if len(password) < MinPasswordLength {
		return domain.Identity{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[email]; ok {
		return domain.Identity{}, ErrEmailTaken
	}

	acc := &account{userID: uuid.NewString(), email: email, hash: hash}
	b.accounts[email] = acc

	b.logger.Info("account registered", slog.String("user_id", acc.userID))

	return domain.Identity{UserID: acc.userID, Email: acc.email}, nil
}

func (b *Broker) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}

	b.mu.Lock()
	acc, ok := b.accounts[email]
	b.mu.Unlock()
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}

	ident := domain.Identity{UserID: acc.userID, Email: acc.email}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = &ident
	b.publishLocked(ctx, domain.SignedIn)

	return ident, nil
}

func (b *Broker) SignOut(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil
	}

	b.current = nil
	b.publishLocked(ctx, domain.SignedOut)

	return nil
}

// Refresh simulates a credential refresh for the signed-in user.
func (b *Broker) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return domain.ErrNotAuthenticated
	}

	b.publishLocked(ctx, domain.TokenRefreshed)

	return nil
}

func (b *Broker) UpdateEmail(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return domain.ErrNotAuthenticated
	}
	if _, ok := b.accounts[email]; ok {
		return ErrEmailTaken
	}

	acc, ok := b.accounts[b.current.Email]
	if !ok {
		return fmt.Errorf("account for user[%s] is missing", b.current.UserID)
	}

	delete(b.accounts, acc.email)
	acc.email = email
	b.accounts[email] = acc
	b.current.Email = email

	b.publishLocked(ctx, domain.UserUpdated)

	return nil
}

// Close ends the event stream.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *Broker) publishLocked(ctx context.Context, kind domain.IdentityEventKind) {
	if b.closed {
		return
	}

	ev := domain.IdentityEvent{Kind: kind, Identity: cloneIdentity(b.current)}

	select {
	case b.events <- ev:
	case <-ctx.Done():
		b.logger.Warn("identity event dropped", slog.String("kind", kind.String()), slog.String("error", ctx.Err().Error()))
	}
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

func cloneIdentity(ident *domain.Identity) *domain.Identity {
	if ident == nil {
		return nil
	}

	clone := *ident
	return &clone
}
