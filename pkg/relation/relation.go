// Package relation implements the add/remove toggles behind favorites,
// shopping cart entries and author subscriptions.
package relation

import (
	"context"
	"errors"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2/log"
)

type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

// Store is the storage side of a toggle. WithinTx hands fn a Store bound to
// a single transaction; fn's error rolls it back.
type Store interface {
	RelationExists(ctx context.Context, kind Kind, userID, targetID uint) (bool, error)
	// CreateRelation reports a uniqueness violation as domain.ErrDuplicate.
	CreateRelation(ctx context.Context, kind Kind, userID, targetID uint) error
	DeleteRelation(ctx context.Context, kind Kind, userID, targetID uint) (int64, error)
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type Messages struct {
	AlreadyExists string
	Missing       string
	SelfReference string
}

var (
	FavoriteMessages = Messages{
		AlreadyExists: "recipe already in favorites",
		Missing:       "recipe was not in favorites",
	}
	ShoppingCartMessages = Messages{
		AlreadyExists: "recipe already in shopping cart",
		Missing:       "recipe was not in shopping cart",
	}
	SubscriptionMessages = Messages{
		AlreadyExists: "already subscribed to this user",
		Missing:       "not subscribed to this user",
		SelfReference: "cannot subscribe to yourself",
	}
)

// Error is a user-facing toggle failure. Err is one of domain.ErrAlreadyExists,
// domain.ErrRelationNotFound or domain.ErrSelfReference.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config parameterizes a Toggler. Resolve loads the target and returns an
// error wrapping domain.ErrNotFound when it does not exist.
type Config[T any] struct {
	Kind       Kind
	Resolve    func(ctx context.Context, id uint) (T, error)
	Messages   Messages
	ForbidSelf bool
}

type Toggler[T any] struct {
	store Store
	cfg   Config[T]
}

func NewToggler[T any](store Store, cfg Config[T]) *Toggler[T] {
	return &Toggler[T]{store: store, cfg: cfg}
}

// Add creates the (user, target) relation and returns the resolved target.
func (t *Toggler[T]) Add(ctx context.Context, userID, targetID uint) (T, error) {
	var zero T

	target, err := t.cfg.Resolve(ctx, targetID)
	if err != nil {
		return zero, err
	}

	if t.cfg.ForbidSelf && userID == targetID {
		return zero, t.fail(domain.ErrSelfReference, t.cfg.Messages.SelfReference)
	}

	err = t.store.WithinTx(ctx, func(tx Store) error {
		exists, err := tx.RelationExists(ctx, t.cfg.Kind, userID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return t.fail(domain.ErrAlreadyExists, t.cfg.Messages.AlreadyExists)
		}

		if err := tx.CreateRelation(ctx, t.cfg.Kind, userID, targetID); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				log.Debugw("relation insert lost a race", "kind", t.cfg.Kind, "user_id", userID, "target_id", targetID)
				return t.fail(domain.ErrAlreadyExists, t.cfg.Messages.AlreadyExists)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return zero, err
	}

	return target, nil
}

// Remove deletes the (user, target) relation.
func (t *Toggler[T]) Remove(ctx context.Context, userID, targetID uint) error {
	if _, err := t.cfg.Resolve(ctx, targetID); err != nil {
		return err
	}

	return t.store.WithinTx(ctx, func(tx Store) error {
		deleted, err := tx.DeleteRelation(ctx, t.cfg.Kind, userID, targetID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return t.fail(domain.ErrRelationNotFound, t.cfg.Messages.Missing)
		}
		return nil
	})
}

func (t *Toggler[T]) fail(err error, message string) *Error {
	if message == "" {
		message = err.Error()
	}
	return &Error{Kind: t.cfg.Kind, Message: message, Err: err}
}
