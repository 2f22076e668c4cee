package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

// NewMongoStore returns a Store backed by the collections of db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Camps:    newMongoCollection[models.Camp](db, KindCamps),
		Bookings: newMongoCollection[models.Booking](db, KindBookings),
		Feedback: newMongoCollection[models.Feedback](db, KindFeedback),
	}
}

type mongoCollection[T any] struct {
	kind Kind
	coll *mongo.Collection
}

func newMongoCollection[T any](db *mongo.Database, kind Kind) *mongoCollection[T] {
	return &mongoCollection[T]{kind: kind, coll: db.Collection(kind.CollectionName())}
}

func (m *mongoCollection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	doc, err := toDocument(rec)
	if err != nil {
		return zero, err
	}
	doc[IDField] = primitive.NewObjectID().Hex()

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, fmt.Errorf("insert %s: %w", m.kind, ErrDuplicate)
		}
		return zero, fmt.Errorf("insert %s: %w", m.kind, err)
	}
	return fromDocument[T](doc)
}

func (m *mongoCollection[T]) FindAll(ctx context.Context, filter Filter, order ...Sort) ([]T, error) {
	opts := options.Find()
	if len(order) > 0 {
		dir := 1
		if order[0].Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order[0].Field, Value: dir}})
	}

	cursor, err := m.coll.Find(ctx, bsonFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.kind, err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.kind, err)
	}
	return out, nil
}

func (m *mongoCollection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var out T
	err := m.coll.FindOne(ctx, bsonFilter(filter)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("find %s: %w", m.kind, err)
	}
	return out, nil
}

func (m *mongoCollection[T]) UpdateOne(ctx context.Context, id string, patch Patch) (T, error) {
	set := bson.M{}
	for k, v := range patch {
		if k != IDField {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return m.FindOne(ctx, ByID(id))
	}

	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.coll.FindOneAndUpdate(ctx, bsonFilter(ByID(id)), bson.M{"$set": set}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("update %s: %w", m.kind, err)
	}
	return out, nil
}

func (m *mongoCollection[T]) DeleteOne(ctx context.Context, id string) error {
	result, err := m.coll.DeleteOne(ctx, bsonFilter(ByID(id)))
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.kind, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes declared by each kind.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, kind := range Kinds {
		for _, fields := range kind.UniqueKeys() {
			keys := bson.D{}
			for _, f := range fields {
				keys = append(keys, bson.E{Key: f, Value: 1})
			}
			model := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
			if _, err := db.Collection(kind.CollectionName()).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("create %s index %v: %w", kind, fields, err)
			}
		}
	}
	return nil
}

// bsonFilter converts filter for the driver. Ids are stored as hex strings,
// but documents written by the earlier Node service carry real ObjectIDs, so
// a hex id matches either form.
func bsonFilter(filter Filter) bson.M {
	out := bson.M{}
	for k, v := range filter {
		out[k] = v
	}
	if id, ok := out[IDField].(string); ok {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out[IDField] = bson.M{"$in": bson.A{id, oid}}
		}
	}
	return out
}
