package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/models"
)

// Mode names the backend a Connector settled on.
type Mode string

const (
	ModePending Mode = "pending"
	ModeMongo   Mode = "mongodb"
	ModeMemory  Mode = "memory"
)

// MongoConfig controls the lazy MongoDB connection.
type MongoConfig struct {
	URI                    string
	Database               string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	// SeedSampleData fills the memory backend with demo records when the
	// connector falls back to it.
	SeedSampleData bool
}

// Connector picks the storage backend on first use and keeps that choice
// for the rest of the process lifetime. A failed connection is not retried.
type Connector struct {
	cfg    MongoConfig
	once   sync.Once
	mu     sync.RWMutex
	mode   Mode
	client *mongo.Client
	mongo  *Store
	memory *Store
}

func NewConnector(cfg MongoConfig) *Connector {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ServerSelectionTimeout <= 0 {
		cfg.ServerSelectionTimeout = 5 * time.Second
	}
	return &Connector{cfg: cfg, mode: ModePending, memory: NewMemoryStore()}
}

// Mode reports the active backend without triggering a connection.
func (c *Connector) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Store returns a Store whose collections resolve the backend on first call.
func (c *Connector) Store() *Store {
	return &Store{
		Camps:    &lazyCollection[models.Camp]{conn: c, pick: func(s *Store) Collection[models.Camp] { return s.Camps }},
		Bookings: &lazyCollection[models.Booking]{conn: c, pick: func(s *Store) Collection[models.Booking] { return s.Bookings }},
		Feedback: &lazyCollection[models.Feedback]{conn: c, pick: func(s *Store) Collection[models.Feedback] { return s.Feedback }},
	}
}

// Resolve connects if no attempt has been made yet and returns the backend
// every collection should use.
func (c *Connector) Resolve(ctx context.Context) *Store {
	c.once.Do(func() { c.connect(context.WithoutCancel(ctx)) })

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mode == ModeMongo {
		return c.mongo
	}
	return c.memory
}

func (c *Connector) connect(ctx context.Context) {
	if c.cfg.URI == "" {
		log.Info().Msg("MONGODB_URI not set; using in-memory storage")
		c.fallback(ctx)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)).
		SetConnectTimeout(c.cfg.ConnectTimeout).
		SetServerSelectionTimeout(c.cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}
	var db *mongo.Database
	if err == nil {
		db = client.Database(c.cfg.Database)
		err = EnsureIndexes(ctx, db)
	}
	if err != nil {
		log.Warn().Err(err).Msg("MongoDB connection failed; using in-memory storage")
		if client != nil {
			_ = client.Disconnect(ctx)
		}
		c.fallback(ctx)
		return
	}

	c.mu.Lock()
	c.client = client
	c.mongo = NewMongoStore(db)
	c.mode = ModeMongo
	c.mu.Unlock()
	log.Info().Str("database", c.cfg.Database).Msg("connected to MongoDB")
}

func (c *Connector) fallback(ctx context.Context) {
	if c.cfg.SeedSampleData {
		if err := SeedSampleData(ctx, c.memory); err != nil {
			log.Warn().Err(err).Msg("seeding in-memory storage failed")
		}
	}
	c.mu.Lock()
	c.mode = ModeMemory
	c.mu.Unlock()
}

// Close disconnects from MongoDB if a connection was established.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

type lazyCollection[T any] struct {
	conn *Connector
	pick func(*Store) Collection[T]
}

func (l *lazyCollection[T]) active(ctx context.Context) Collection[T] {
	return l.pick(l.conn.Resolve(ctx))
}

func (l *lazyCollection[T]) Insert(ctx context.Context, rec T) (T, error) {
	return l.active(ctx).Insert(ctx, rec)
}

func (l *lazyCollection[T]) FindAll(ctx context.Context, filter Filter, order ...Sort) ([]T, error) {
	return l.active(ctx).FindAll(ctx, filter, order...)
}

func (l *lazyCollection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	return l.active(ctx).FindOne(ctx, filter)
}

func (l *lazyCollection[T]) UpdateOne(ctx context.Context, id string, patch Patch) (T, error) {
	return l.active(ctx).UpdateOne(ctx, id, patch)
}

func (l *lazyCollection[T]) DeleteOne(ctx context.Context, id string) error {
	return l.active(ctx).DeleteOne(ctx, id)
}
