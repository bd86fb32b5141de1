package db

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"octofit/models"
)

// MemoryCollection keeps BSON-encoded documents in process memory in
// insertion order. Documents round-trip through BSON exactly like they do
// against MongoDB, so callers never share memory with the store.
type MemoryCollection[T any, PT models.Record[T]] struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	docs   map[primitive.ObjectID]bson.Raw
	unique []string
}

// NewMemoryCollection creates an empty collection with a unique index on each of uniqueFields.
func NewMemoryCollection[T any, PT models.Record[T]](uniqueFields ...string) *MemoryCollection[T, PT] {
	return &MemoryCollection[T, PT]{
		docs:   make(map[primitive.ObjectID]bson.Raw),
		unique: uniqueFields,
	}
}

func (m *MemoryCollection[T, PT]) List(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		doc, err := decode[T](m.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *MemoryCollection[T, PT]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.docs[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return decode[T](raw)
}

func (m *MemoryCollection[T, PT]) Insert(ctx context.Context, doc T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.insertLocked(&doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func (m *MemoryCollection[T, PT]) Replace(ctx context.Context, doc T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := PT(&doc).GetID()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := m.checkUniqueLocked(raw, id); err != nil {
		return err
	}
	m.docs[id] = raw
	return nil
}

func (m *MemoryCollection[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryCollection[T, PT]) CountBy(ctx context.Context, field, value string, exclude primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for id, raw := range m.docs {
		if id == exclude {
			continue
		}
		if v, ok := raw.Lookup(field).StringValueOK(); ok && v == value {
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.order))
	m.order = nil
	m.docs = make(map[primitive.ObjectID]bson.Raw)
	return n, nil
}

func (m *MemoryCollection[T, PT]) InsertMany(ctx context.Context, docs []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range docs {
		doc := docs[i]
		if err := m.insertLocked(&doc); err != nil {
			return err
		}
	}
	return nil
}

// Swap replaces the content under a single lock acquisition.
func (m *MemoryCollection[T, PT]) Swap(ctx context.Context, docs []T) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prevOrder, prevDocs := m.order, m.docs
	m.order = nil
	m.docs = make(map[primitive.ObjectID]bson.Raw, len(docs))
	for i := range docs {
		doc := docs[i]
		if err := m.insertLocked(&doc); err != nil {
			m.order, m.docs = prevOrder, prevDocs
			return 0, err
		}
	}
	return int64(len(prevOrder)), nil
}

func (m *MemoryCollection[T, PT]) insertLocked(doc *T) error {
	p := PT(doc)
	id := p.GetID()
	if id.IsZero() {
		id = primitive.NewObjectID()
		p.SetID(id)
	}
	if _, exists := m.docs[id]; exists {
		return &ConstraintError{Field: "_id", Value: id.Hex()}
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := m.checkUniqueLocked(raw, id); err != nil {
		return err
	}
	m.docs[id] = raw
	m.order = append(m.order, id)
	return nil
}

func (m *MemoryCollection[T, PT]) checkUniqueLocked(raw bson.Raw, self primitive.ObjectID) error {
	for _, field := range m.unique {
		candidate, err := raw.LookupErr(field)
		if err != nil {
			continue
		}
		for id, other := range m.docs {
			if id == self {
				continue
			}
			if existing, err := other.LookupErr(field); err == nil && existing.Equal(candidate) {
				return &ConstraintError{Field: field, Value: valueString(candidate)}
			}
		}
	}
	return nil
}

func valueString(v bson.RawValue) string {
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return v.String()
}

func decode[T any](raw bson.Raw) (T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
