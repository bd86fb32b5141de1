package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a standalone catalog entry.
type Workout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name            string             `bson:"name" json:"name" validate:"required,max=255"`
	Description     string             `bson:"description" json:"description" validate:"required"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	DifficultyLevel string             `bson:"difficulty_level" json:"difficulty_level" validate:"required,max=50"`
	Exercises       []string           `bson:"exercises" json:"exercises"`
	TargetAudience  string             `bson:"target_audience" json:"target_audience" validate:"required,max=255"`
}

var workoutSchema = Schema{
	Kind:     "workout",
	Required: []string{"name", "description", "duration_minutes", "difficulty_level", "target_audience"},
	Optional: []string{"exercises"},
}

func (w *Workout) GetID() primitive.ObjectID     { return w.ID }
func (w *Workout) SetID(id primitive.ObjectID)   { w.ID = id }
func (w *Workout) Schema() Schema                { return workoutSchema }
func (w *Workout) UniqueKeys() map[string]string { return nil }

func (w Workout) MarshalJSON() ([]byte, error) {
	type Alias Workout
	exercises := w.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	return json.Marshal(&struct {
		ID        string   `json:"id,omitempty"`
		Exercises []string `json:"exercises"`
		*Alias
	}{
		ID:        NormalizeID(w.ID),
		Exercises: exercises,
		Alias:     (*Alias)(&w),
	})
}
