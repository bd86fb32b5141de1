package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"octofit/models"
)

// ErrNotFound is returned when no document has the requested identifier.
var ErrNotFound = errors.New("document not found")

// ConstraintError reports a write rejected by a unique index.
type ConstraintError struct {
	Field string
	Value string
	Err   error
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	if e.Value == "" {
		return fmt.Sprintf("duplicate value for unique field %s", e.Field)
	}
	return fmt.Sprintf("duplicate value %q for unique field %s", e.Value, e.Field)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Lister reads every document of a collection in storage order.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Collection is the single-document contract every resource is stored behind.
type Collection[T any] interface {
	Lister[T]
	Get(ctx context.Context, id primitive.ObjectID) (T, error)
	// Insert assigns an identifier when the document has none and returns the stored document.
	Insert(ctx context.Context, doc T) (T, error)
	Replace(ctx context.Context, doc T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
	// CountBy counts documents whose field equals value, ignoring exclude when it is set.
	CountBy(ctx context.Context, field, value string, exclude primitive.ObjectID) (int64, error)
}

// SnapshotWriter replaces the whole content of a derived collection.
type SnapshotWriter[T any] interface {
	DeleteAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, docs []T) error
	// Swap publishes docs as the new content in one step and returns how many
	// documents were replaced.
	Swap(ctx context.Context, docs []T) (int64, error)
}

// SnapshotCollection is a collection that also supports wholesale replacement.
type SnapshotCollection[T any] interface {
	Collection[T]
	SnapshotWriter[T]
}

// Stores holds one collection per resource.
type Stores struct {
	Users       Collection[models.User]
	Teams       Collection[models.Team]
	Activities  Collection[models.Activity]
	Leaderboard SnapshotCollection[models.Leaderboard]
	Workouts    Collection[models.Workout]
}

// NewMongoStores binds every resource to its collection in database.
func NewMongoStores(database *mongo.Database) Stores {
	return Stores{
		Users:       NewMongoCollection[models.User](database.Collection(models.UsersCollection)),
		Teams:       NewMongoCollection[models.Team](database.Collection(models.TeamsCollection)),
		Activities:  NewMongoCollection[models.Activity](database.Collection(models.ActivitiesCollection)),
		Leaderboard: NewMongoCollection[models.Leaderboard](database.Collection(models.LeaderboardCollection)),
		Workouts:    NewMongoCollection[models.Workout](database.Collection(models.WorkoutsCollection)),
	}
}

// NewMemoryStores returns process-local stores with the same unique index as MongoDB.
func NewMemoryStores() Stores {
	return Stores{
		Users:       NewMemoryCollection[models.User]("email"),
		Teams:       NewMemoryCollection[models.Team](),
		Activities:  NewMemoryCollection[models.Activity](),
		Leaderboard: NewMemoryCollection[models.Leaderboard](),
		Workouts:    NewMemoryCollection[models.Workout](),
	}
}
