// Package identity maps display labels to stable user records. Two policies
// exist; a deployment wires exactly one.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

// ErrUnknownIdentity reports a strict lookup for a label that was never
// registered. Callers should redirect to registration rather than retry.
var ErrUnknownIdentity = errors.New("unknown identity")

// AnonymousName is the display label of the shared fallback identity used
// when a caller arrives with no identity context.
const AnonymousName = "guest"

// Resolver turns a display label into a user record.
type Resolver interface {
	Resolve(ctx context.Context, label string) (*model.User, error)
}

// AutoProvision resolves by exact label and creates the identity on first
// reference. It only fails on storage errors.
type AutoProvision struct {
	users repository.UserRepository
}

func NewAutoProvision(users repository.UserRepository) *AutoProvision {
	return &AutoProvision{users: users}
}

func (r *AutoProvision) Resolve(ctx context.Context, label string) (*model.User, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = AnonymousName
	}

	user, err := r.users.FindByName(ctx, label)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrNotFound):
		user = &model.User{Name: label}
		if err := r.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("provision identity %q: %w", label, err)
		}
		return user, nil
	default:
		return nil, fmt.Errorf("find identity %q: %w", label, err)
	}
}

// Strict resolves by exact label and fails on a miss. Identities are created
// only through the explicit registration step in the auth service.
type Strict struct {
	users repository.UserRepository
}

func NewStrict(users repository.UserRepository) *Strict {
	return &Strict{users: users}
}

func (r *Strict) Resolve(ctx context.Context, label string) (*model.User, error) {
	user, err := r.users.FindByName(ctx, strings.TrimSpace(label))
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUnknownIdentity
	default:
		return nil, fmt.Errorf("find identity: %w", err)
	}
}
