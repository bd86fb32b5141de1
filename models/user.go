package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a participant's profile. Email is the natural key other
// collections use to refer to a user.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name" validate:"required,max=255"`
	Email        string             `bson:"email" json:"email" validate:"required,email,max=254"`
	Team         string             `bson:"team" json:"team" validate:"required,max=255"`
	Age          int                `bson:"age" json:"age" validate:"gte=0"`
	FitnessLevel string             `bson:"fitness_level" json:"fitness_level" validate:"required,max=50"`
	TotalPoints  int                `bson:"total_points" json:"total_points"`
}

var userSchema = Schema{
	Kind:     "user",
	Required: []string{"name", "email", "team", "age", "fitness_level"},
	Optional: []string{"total_points"},
}

func (u *User) GetID() primitive.ObjectID   { return u.ID }
func (u *User) SetID(id primitive.ObjectID) { u.ID = id }
func (u *User) Schema() Schema              { return userSchema }

func (u *User) UniqueKeys() map[string]string {
	return map[string]string{"email": u.Email}
}

// MarshalJSON emits the identifier in canonical string form
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	return json.Marshal(&struct {
		ID string `json:"id,omitempty"`
		*Alias
	}{
		ID:    NormalizeID(u.ID),
		Alias: (*Alias)(&u),
	})
}
