package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names in the document store.
const (
	UsersCollection       = "users"
	TeamsCollection       = "teams"
	ActivitiesCollection  = "activities"
	LeaderboardCollection = "leaderboard"
	WorkoutsCollection    = "workouts"
)

// Schema describes the request-side field rules of an entity that cannot be
// expressed as validator tags.
type Schema struct {
	Kind     string   // singular name used in messages, e.g. "user"
	Required []string // keys that must be present and non-null on create and full update
	Optional []string
	Nullable []string // keys that accept an explicit null
}

// Known reports whether field is part of the entity's request body.
func (s Schema) Known(field string) bool {
	return contains(s.Required, field) || contains(s.Optional, field)
}

// IsNullable reports whether field accepts an explicit JSON null.
func (s Schema) IsNullable(field string) bool {
	return contains(s.Nullable, field)
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// Entity is implemented by pointers to every stored resource.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
	Schema() Schema
	// UniqueKeys returns the field/value pairs that must be unique across the collection.
	UniqueKeys() map[string]string
}

// Record constrains a type parameter to a struct whose pointer is an Entity.
type Record[T any] interface {
	*T
	Entity
}

// NormalizeID renders a record identifier in its canonical string form.
// Strings pass through unchanged, so NormalizeID(NormalizeID(x)) == NormalizeID(x).
func NormalizeID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		if v.IsZero() {
			return ""
		}
		return v.Hex()
	case *primitive.ObjectID:
		if v == nil {
			return ""
		}
		return NormalizeID(*v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseID converts a canonical identifier back to the store representation.
func ParseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || oid.IsZero() {
		return primitive.NilObjectID, false
	}
	return oid, true
}
