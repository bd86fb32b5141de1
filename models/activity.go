package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a single logged exercise session. UserEmail refers to a User
// by email without any enforced integrity.
type Activity struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserEmail       string             `bson:"user_email" json:"user_email" validate:"required,email,max=254"`
	UserName        string             `bson:"user_name" json:"user_name" validate:"required,max=255"`
	ActivityType    string             `bson:"activity_type" json:"activity_type" validate:"required,max=100"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes" validate:"gte=0"`
	CaloriesBurned  int                `bson:"calories_burned" json:"calories_burned" validate:"gte=0"`
	Date            string             `bson:"date" json:"date" validate:"required,max=100"`
	DistanceKm      *float64           `bson:"distance_km" json:"distance_km"` // only for distance-based types
}

var activitySchema = Schema{
	Kind:     "activity",
	Required: []string{"user_email", "user_name", "activity_type", "duration_minutes", "calories_burned", "date"},
	Optional: []string{"distance_km"},
	Nullable: []string{"distance_km"},
}

func (a *Activity) GetID() primitive.ObjectID     { return a.ID }
func (a *Activity) SetID(id primitive.ObjectID)   { a.ID = id }
func (a *Activity) Schema() Schema                { return activitySchema }
func (a *Activity) UniqueKeys() map[string]string { return nil }

func (a Activity) MarshalJSON() ([]byte, error) {
	type Alias Activity
	return json.Marshal(&struct {
		ID string `json:"id,omitempty"`
		*Alias
	}{
		ID:    NormalizeID(a.ID),
		Alias: (*Alias)(&a),
	})
}
