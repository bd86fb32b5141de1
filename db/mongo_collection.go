package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"octofit/models"
)

// MongoCollection stores documents of type T in a MongoDB collection.
type MongoCollection[T any, PT models.Record[T]] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps coll.
func NewMongoCollection[T any, PT models.Record[T]](coll *mongo.Collection) *MongoCollection[T, PT] {
	return &MongoCollection[T, PT]{coll: coll}
}

func (m *MongoCollection[T, PT]) List(ctx context.Context) ([]T, error) {
	cursor, err := m.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.coll.Name(), err)
	}
	return docs, nil
}

func (m *MongoCollection[T, PT]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	var doc T
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("find %s %s: %w", m.coll.Name(), id.Hex(), err)
	}
	return doc, nil
}

func (m *MongoCollection[T, PT]) Insert(ctx context.Context, doc T) (T, error) {
	result, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return doc, m.writeError("insert", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		PT(&doc).SetID(id)
	}
	return doc, nil
}

func (m *MongoCollection[T, PT]) Replace(ctx context.Context, doc T) error {
	id := PT(&doc).GetID()
	result, err := m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return m.writeError("replace", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", m.coll.Name(), id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection[T, PT]) CountBy(ctx context.Context, field, value string, exclude primitive.ObjectID) (int64, error) {
	filter := bson.M{field: value}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := m.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s by %s: %w", m.coll.Name(), field, err)
	}
	return n, nil
}

func (m *MongoCollection[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	result, err := m.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", m.coll.Name(), err)
	}
	return result.DeletedCount, nil
}

func (m *MongoCollection[T, PT]) InsertMany(ctx context.Context, docs []T) error {
	return insertAll(ctx, m.coll, docs)
}

// Swap fills a shadow collection and renames it over the live one, so readers
// see either the previous content or the new one and never a partial state.
func (m *MongoCollection[T, PT]) Swap(ctx context.Context, docs []T) (int64, error) {
	database := m.coll.Database()
	shadowName := m.coll.Name() + "_shadow"
	shadow := database.Collection(shadowName)

	if err := shadow.Drop(ctx); err != nil {
		return 0, fmt.Errorf("drop %s: %w", shadowName, err)
	}
	if err := database.CreateCollection(ctx, shadowName); err != nil {
		return 0, fmt.Errorf("create %s: %w", shadowName, err)
	}
	if err := insertAll(ctx, shadow, docs); err != nil {
		return 0, err
	}

	replaced, err := m.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.coll.Name(), err)
	}

	cmd := bson.D{
		{Key: "renameCollection", Value: database.Name() + "." + shadowName},
		{Key: "to", Value: database.Name() + "." + m.coll.Name()},
		{Key: "dropTarget", Value: true},
	}
	if err := database.Client().Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return 0, fmt.Errorf("publish %s: %w", m.coll.Name(), err)
	}
	return replaced, nil
}

func insertAll[T any](ctx context.Context, coll *mongo.Collection, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	documents := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, doc)
	}
	if _, err := coll.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}

var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?: "?([^"}]*)"? ?\}`)

func (m *MongoCollection[T, PT]) writeError(op string, err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w", op, m.coll.Name(), err)
	}
	cerr := &ConstraintError{Err: err}
	if match := dupKeyPattern.FindStringSubmatch(err.Error()); match != nil {
		cerr.Field = match[1]
		cerr.Value = match[2]
	}
	return cerr
}
