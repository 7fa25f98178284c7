package port

import (
	"context"

	"github.com/nikolayk812/shopcart/internal/domain"
)

type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) error
	UpdateEmail(ctx context.Context, email string) error
	Current() *domain.Identity
	Events() <-chan domain.IdentityEvent
}
