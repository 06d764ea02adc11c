// Package admin drives the quiz and question management screens. Every
// mutation is followed by a full reload; nothing is patched locally.
package admin

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quizownik/internal/backend"
)

var logger = logrus.WithField("module", "Admin")

var (
	ErrNotAdmin        = errors.New("admin: administrator role required")
	ErrNothingPending  = errors.New("admin: no deletion pending")
	ErrGenerateRunning = errors.New("admin: generation already in progress")
)

// Resource is the API surface a Board needs for one kind of item.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, id int64, item T) error
	Delete(ctx context.Context, id int64) error
}

// Board is a list/create/update/delete controller for one resource.
type Board[T any] struct {
	name     string
	resource Resource[T]

	mu      sync.Mutex
	items   []T
	pending *int64
	err     error
}

func NewBoard[T any](name string, resource Resource[T]) *Board[T] {
	return &Board[T]{name: name, resource: resource}
}

// Load replaces the list with a fresh copy from the API.
func (b *Board[T]) Load(ctx context.Context) error {
	items, err := b.resource.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		logger.WithError(err).WithField("board", b.name).Warn("failed to load list")
		return errors.Wrapf(err, "load %s", b.name)
	}
	b.items = items
	return nil
}

func (b *Board[T]) Create(ctx context.Context, item T) error {
	if err := b.resource.Create(ctx, item); err != nil {
		return b.fail(errors.Wrapf(err, "create %s", b.name))
	}
	return b.Load(ctx)
}

func (b *Board[T]) Update(ctx context.Context, id int64, item T) error {
	if err := b.resource.Update(ctx, id, item); err != nil {
		return b.fail(errors.Wrapf(err, "update %s %d", b.name, id))
	}
	return b.Load(ctx)
}

// RequestDelete stages id for deletion. Nothing is sent until ConfirmDelete.
func (b *Board[T]) RequestDelete(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = &id
}

func (b *Board[T]) CancelDelete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}

// ConfirmDelete deletes the staged item and reloads the list.
func (b *Board[T]) ConfirmDelete(ctx context.Context) error {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if pending == nil {
		return ErrNothingPending
	}
	if err := b.resource.Delete(ctx, *pending); err != nil {
		return b.fail(errors.Wrapf(err, "delete %s %d", b.name, *pending))
	}
	return b.Load(ctx)
}

// Pending returns the id staged for deletion, if any.
func (b *Board[T]) Pending() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return 0, false
	}
	return *b.pending, true
}

func (b *Board[T]) Items() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]T(nil), b.items...)
}

// Err is the last failure, cleared by a successful Load.
func (b *Board[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Board[T]) fail(err error) error {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
	logger.WithError(err).WithField("board", b.name).Warn("mutation failed")
	return err
}

// RequireAdmin gates the management screens. The gateway enforces its own
// policy independently.
func RequireAdmin(user backend.User) error {
	if !user.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
