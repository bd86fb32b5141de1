package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leaderboard is one ranked snapshot record. Records are produced in bulk by
// the leaderboard aggregator and are stale until the next recompute.
type Leaderboard struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Rank                int                `bson:"rank" json:"rank" validate:"gte=1"`
	UserName            string             `bson:"user_name" json:"user_name" validate:"required,max=255"`
	UserEmail           string             `bson:"user_email" json:"user_email" validate:"required,email,max=254"`
	Team                string             `bson:"team" json:"team" validate:"required,max=255"`
	TeamName            *string            `bson:"team_name" json:"team_name" validate:"omitempty,max=255"`
	Points              int                `bson:"points" json:"points"`
	ActivitiesCount     int                `bson:"activities_count" json:"activities_count"`
	TotalCaloriesBurned int                `bson:"total_calories_burned" json:"total_calories_burned"`
	UpdatedAt           string             `bson:"updated_at" json:"updated_at" validate:"required,max=100"`
}

var leaderboardSchema = Schema{
	Kind:     "leaderboard",
	Required: []string{"rank", "user_name", "user_email", "team", "points", "activities_count", "updated_at"},
	Optional: []string{"team_name", "total_calories_burned"},
	Nullable: []string{"team_name"},
}

func (l *Leaderboard) GetID() primitive.ObjectID     { return l.ID }
func (l *Leaderboard) SetID(id primitive.ObjectID)   { l.ID = id }
func (l *Leaderboard) Schema() Schema                { return leaderboardSchema }
func (l *Leaderboard) UniqueKeys() map[string]string { return nil }

func (l Leaderboard) MarshalJSON() ([]byte, error) {
	type Alias Leaderboard
	return json.Marshal(&struct {
		ID string `json:"id,omitempty"`
		*Alias
	}{
		ID:    NormalizeID(l.ID),
		Alias: (*Alias)(&l),
	})
}
