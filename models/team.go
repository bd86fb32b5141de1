package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team groups users by email. Members are soft references and TotalPoints is
// a denormalized value supplied by the writer, never recomputed here.
type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name        string             `bson:"name" json:"name" validate:"required,max=255"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Members     MemberList         `bson:"members" json:"members"`
	TotalPoints int                `bson:"total_points" json:"total_points"`
	CreatedAt   string             `bson:"created_at" json:"created_at" validate:"required,max=100"`
}

var teamSchema = Schema{
	Kind:     "team",
	Required: []string{"name", "description", "created_at"},
	Optional: []string{"members", "total_points"},
}

func (t *Team) GetID() primitive.ObjectID     { return t.ID }
func (t *Team) SetID(id primitive.ObjectID)   { t.ID = id }
func (t *Team) Schema() Schema                { return teamSchema }
func (t *Team) UniqueKeys() map[string]string { return nil }

// MembersCount is the number of member emails, zero when members is absent.
func (t Team) MembersCount() int {
	return len(t.Members)
}

// MarshalJSON converts the identifier to a string and attaches members_count.
func (t Team) MarshalJSON() ([]byte, error) {
	type Alias Team
	members := t.Members
	if members == nil {
		members = MemberList{}
	}
	return json.Marshal(&struct {
		ID           string     `json:"id,omitempty"`
		Members      MemberList `json:"members"`
		MembersCount int        `json:"members_count"`
		*Alias
	}{
		ID:           NormalizeID(t.ID),
		Members:      members,
		MembersCount: t.MembersCount(),
		Alias:        (*Alias)(&t),
	})
}

// MemberList is the ordered list of member emails on a team.
type MemberList []string

// UnmarshalBSONValue reads anything that is not an array of strings as an
// empty list, so documents written by other tools never fail to decode.
func (m *MemberList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*m = nil
	if t != bsontype.Array {
		return nil
	}
	var members []string
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&members); err != nil {
		return nil
	}
	*m = members
	return nil
}
