// Package memory is an in-process Store for the relation toggles and the
// shopping list. Uniqueness of (kind, user, target) is enforced the same way
// the database constraints do it.
package memory

import (
	"context"
	"sort"
	"sync"

	"foodgram/domain"
	"foodgram/pkg/relation"
	"foodgram/pkg/shoppinglist"
)

type pair struct {
	userID   uint
	targetID uint
}

type Store struct {
	// txMu serializes transactions; mu guards the maps.
	txMu sync.Mutex
	mu   sync.RWMutex

	relations map[relation.Kind]map[pair]struct{}
	lines     map[uint][]shoppinglist.Line
}

func New() *Store {
	return &Store{
		relations: make(map[relation.Kind]map[pair]struct{}),
		lines:     make(map[uint][]shoppinglist.Line),
	}
}

// SetRecipeLines replaces the ingredient lines of a recipe.
func (s *Store) SetRecipeLines(recipeID uint, lines ...shoppinglist.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[recipeID] = append([]shoppinglist.Line(nil), lines...)
}

// Count returns the number of rows of kind.
func (s *Store) Count(kind relation.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relations[kind])
}

func (s *Store) RelationExists(_ context.Context, kind relation.Kind, userID, targetID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.relations[kind][pair{userID, targetID}]
	return ok, nil
}

func (s *Store) CreateRelation(_ context.Context, kind relation.Kind, userID, targetID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.relations[kind]
	if !ok {
		rows = make(map[pair]struct{})
		s.relations[kind] = rows
	}
	key := pair{userID, targetID}
	if _, exists := rows[key]; exists {
		return domain.ErrDuplicate
	}
	rows[key] = struct{}{}
	return nil
}

func (s *Store) DeleteRelation(_ context.Context, kind relation.Kind, userID, targetID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pair{userID, targetID}
	if _, ok := s.relations[kind][key]; !ok {
		return 0, nil
	}
	delete(s.relations[kind], key)
	return 1, nil
}

// WithinTx runs fn against a view of s that journals its writes. When fn
// fails only those writes are undone; rows written outside fn survive.
func (s *Store) WithinTx(_ context.Context, fn func(tx relation.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{Store: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type undo struct {
	kind    relation.Kind
	key     pair
	created bool
}

type txStore struct {
	*Store
	journal []undo
}

func (t *txStore) CreateRelation(ctx context.Context, kind relation.Kind, userID, targetID uint) error {
	if err := t.Store.CreateRelation(ctx, kind, userID, targetID); err != nil {
		return err
	}
	t.journal = append(t.journal, undo{kind: kind, key: pair{userID, targetID}, created: true})
	return nil
}

func (t *txStore) DeleteRelation(ctx context.Context, kind relation.Kind, userID, targetID uint) (int64, error) {
	n, err := t.Store.DeleteRelation(ctx, kind, userID, targetID)
	if err != nil || n == 0 {
		return n, err
	}
	t.journal = append(t.journal, undo{kind: kind, key: pair{userID, targetID}})
	return n, nil
}

func (t *txStore) WithinTx(_ context.Context, fn func(tx relation.Store) error) error {
	return fn(t)
}

func (t *txStore) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.journal) - 1; i >= 0; i-- {
		u := t.journal[i]
		if u.created {
			delete(t.relations[u.kind], u.key)
			continue
		}
		if t.relations[u.kind] == nil {
			t.relations[u.kind] = make(map[pair]struct{})
		}
		t.relations[u.kind][u.key] = struct{}{}
	}
}

func (s *Store) CartRecipeIDs(_ context.Context, userID uint) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uint
	for k := range s.relations[relation.KindShoppingCart] {
		if k.userID == userID {
			ids = append(ids, k.targetID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) IngredientLinesForRecipes(_ context.Context, recipeIDs []uint) ([]shoppinglist.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []shoppinglist.Line
	for _, id := range recipeIDs {
		out = append(out, s.lines[id]...)
	}
	return out, nil
}

func (s *Store) WithinReadTx(_ context.Context, fn func(tx shoppinglist.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}
