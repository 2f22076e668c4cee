// Package store persists camps, bookings and feedback. Every record kind is
// reached through Collection, which is implemented both on MongoDB and in
// process memory with the same filtering, sorting and merge semantics.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// IDField is the document key holding a record's id.
const IDField = "_id"

// Filter selects records whose fields equal the given values.
type Filter map[string]any

// Patch lists the fields to overwrite on update. IDField is ignored.
type Patch map[string]any

// Sort orders FindAll results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Collection is the persistence contract shared by both backends.
type Collection[T any] interface {
	Insert(ctx context.Context, rec T) (T, error)
	FindAll(ctx context.Context, filter Filter, sort ...Sort) ([]T, error)
	FindOne(ctx context.Context, filter Filter) (T, error)
	UpdateOne(ctx context.Context, id string, patch Patch) (T, error)
	DeleteOne(ctx context.Context, id string) error
}

// Store groups the collection of every record kind.
type Store struct {
	Camps    Collection[models.Camp]
	Bookings Collection[models.Booking]
	Feedback Collection[models.Feedback]
}

// ByID is a filter matching a single id.
func ByID(id string) Filter {
	return Filter{IDField: id}
}

// PatchFrom converts a struct with omitempty bson tags into a Patch holding
// only the fields that are set.
func PatchFrom(v any) (Patch, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	delete(doc, IDField)
	return Patch(doc), nil
}

// toDocument normalizes any value into the representation MongoDB would
// store, so the memory backend compares exactly what the server would.
func toDocument(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func fromDocument[T any](doc bson.M) (T, error) {
	var out T
	data, err := bson.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("encode document: %w", err)
	}
	if err := bson.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
