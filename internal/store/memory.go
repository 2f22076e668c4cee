package store

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

// NewMemoryStore returns a Store kept entirely in process memory. Its
// contents are lost when the process exits.
func NewMemoryStore() *Store {
	return &Store{
		Camps:    newMemoryCollection[models.Camp](KindCamps),
		Bookings: newMemoryCollection[models.Booking](KindBookings),
		Feedback: newMemoryCollection[models.Feedback](KindFeedback),
	}
}

type memoryCollection[T any] struct {
	kind   Kind
	mu     sync.RWMutex
	docs   []bson.M
	nextID int
}

func newMemoryCollection[T any](kind Kind) *memoryCollection[T] {
	return &memoryCollection[T]{kind: kind, nextID: 1}
}

func (m *memoryCollection[T]) Insert(_ context.Context, rec T) (T, error) {
	var zero T
	doc, err := toDocument(rec)
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, keys := range m.kind.UniqueKeys() {
		if m.violates(doc, keys) {
			return zero, fmt.Errorf("%s %v: %w", m.kind, keys, ErrDuplicate)
		}
	}

	doc[IDField] = m.kind.idPrefix() + strconv.Itoa(m.nextID)
	m.nextID++
	m.docs = append(m.docs, doc)
	return fromDocument[T](doc)
}

func (m *memoryCollection[T]) violates(doc bson.M, keys []string) bool {
	key := make(Filter, len(keys))
	for _, k := range keys {
		key[k] = doc[k]
	}
	for _, existing := range m.docs {
		if matches(existing, bson.M(key)) {
			return true
		}
	}
	return false
}

func (m *memoryCollection[T]) FindAll(_ context.Context, filter Filter, order ...Sort) ([]T, error) {
	f, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []bson.M
	for _, doc := range m.docs {
		if matches(doc, f) {
			found = append(found, doc)
		}
	}

	if len(order) > 0 {
		by := order[0]
		sort.SliceStable(found, func(i, j int) bool {
			c := compareValues(found[i][by.Field], found[j][by.Field])
			if by.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]T, 0, len(found))
	for _, doc := range found {
		rec, err := fromDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryCollection[T]) FindOne(_ context.Context, filter Filter) (T, error) {
	var zero T
	f, err := normalizeFilter(filter)
	if err != nil {
		return zero, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.docs {
		if matches(doc, f) {
			return fromDocument[T](doc)
		}
	}
	return zero, ErrNotFound
}

func (m *memoryCollection[T]) UpdateOne(_ context.Context, id string, patch Patch) (T, error) {
	var zero T
	p, err := toDocument(map[string]any(patch))
	if err != nil {
		return zero, err
	}
	delete(p, IDField)

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}
	for k, v := range p {
		m.docs[i][k] = v
	}
	return fromDocument[T](m.docs[i])
}

func (m *memoryCollection[T]) DeleteOne(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return nil
}

func (m *memoryCollection[T]) indexOf(id string) int {
	for i, doc := range m.docs {
		if doc[IDField] == id {
			return i
		}
	}
	return -1
}

func normalizeFilter(filter Filter) (bson.M, error) {
	if len(filter) == 0 {
		return bson.M{}, nil
	}
	return toDocument(map[string]any(filter))
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// compareValues orders two decoded BSON values. Missing values sort first,
// as they do on the server.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmp.Compare(x, y)
		}
	case int32, int64, float64:
		if fx, ok := toFloat(a); ok {
			if fy, ok := toFloat(b); ok {
				return cmp.Compare(fx, fy)
			}
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
