package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeErr(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr
}

func TestDecodeRecordCreateUser(t *testing.T) {
	body := []byte(`{"name":"X","email":"x@x.com","team":"T","age":20,"fitness_level":"Beginner","total_points":0}`)

	var u User
	require.NoError(t, DecodeRecord(body, &u, u.Schema(), false))
	assert.Equal(t, "x@x.com", u.Email)
	assert.Equal(t, 20, u.Age)
	assert.True(t, u.ID.IsZero())
}

func TestDecodeRecordIgnoresClientID(t *testing.T) {
	body := []byte(`{"id":"65a000000000000000000001","name":"X","email":"x@x.com","team":"T","age":20,"fitness_level":"Beginner"}`)

	var u User
	require.NoError(t, DecodeRecord(body, &u, u.Schema(), false))
	assert.True(t, u.ID.IsZero())
	assert.Equal(t, 0, u.TotalPoints)
}

func TestDecodeRecordReportsEachField(t *testing.T) {
	body := []byte(`{"name":"","email":"not-an-email","age":"old","fitness_level":null}`)

	var u User
	verr := decodeErr(t, DecodeRecord(body, &u, u.Schema(), false))

	assert.Equal(t, []string{"This field may not be blank."}, verr.Fields["name"])
	assert.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])
	assert.Equal(t, []string{"This field is required."}, verr.Fields["team"])
	assert.Equal(t, []string{"A valid integer is required."}, verr.Fields["age"])
	assert.Equal(t, []string{"This field may not be null."}, verr.Fields["fitness_level"])
	assert.NotContains(t, verr.Fields, "total_points")
}

func TestDecodeRecordRejectsNonObject(t *testing.T) {
	for _, body := range []string{``, `null`, `[1,2]`, `"x"`, `{`} {
		var w Workout
		verr := decodeErr(t, DecodeRecord([]byte(body), &w, w.Schema(), false))
		assert.Contains(t, verr.Fields, NonFieldErrors, body)
	}
}

func TestDecodeRecordPartialKeepsExistingValues(t *testing.T) {
	distance := 5.0
	a := Activity{
		UserEmail:       "tony.stark@marvel.com",
		UserName:        "Tony Stark",
		ActivityType:    "Running",
		DurationMinutes: 30,
		CaloriesBurned:  200,
		Date:            "2025-02-01",
		DistanceKm:      &distance,
	}

	require.NoError(t, DecodeRecord([]byte(`{"calories_burned":450}`), &a, a.Schema(), true))
	assert.Equal(t, 450, a.CaloriesBurned)
	assert.Equal(t, "Running", a.ActivityType)
	require.NotNil(t, a.DistanceKm)

	require.NoError(t, DecodeRecord([]byte(`{"distance_km":null}`), &a, a.Schema(), true))
	assert.Nil(t, a.DistanceKm)

	verr := decodeErr(t, DecodeRecord([]byte(`{"user_email":"broken"}`), &a, a.Schema(), true))
	assert.Contains(t, verr.Fields, "user_email")
}

func TestDecodeRecordTeamMembersMustBeList(t *testing.T) {
	var team Team
	verr := decodeErr(t, DecodeRecord(
		[]byte(`{"name":"T","description":"d","created_at":"2025-01-01","members":"a@example.com"}`),
		&team, team.Schema(), false))
	assert.Contains(t, verr.Fields, "members")
}

func TestDecodeRecordLeaderboardRank(t *testing.T) {
	body := []byte(`{"rank":0,"user_name":"A","user_email":"a@example.com","team":"T","points":1,"activities_count":0,"updated_at":"2025-02-11"}`)

	var l Leaderboard
	verr := decodeErr(t, DecodeRecord(body, &l, l.Schema(), false))
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, verr.Fields["rank"])
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("name", "b")
	verr.Add("email", "a")
	assert.Equal(t, "email: a; name: b", verr.Error())
	assert.False(t, verr.Empty())
}

func TestDecodeRecordReportsEveryTypeError(t *testing.T) {
	body := []byte(`{"name":5,"email":"x@x.com","team":7,"age":"twenty","fitness_level":"Beginner","total_points":"lots"}`)

	var u User
	verr := decodeErr(t, DecodeRecord(body, &u, u.Schema(), false))

	assert.Equal(t, []string{"Not a valid string."}, verr.Fields["name"])
	assert.Equal(t, []string{"Not a valid string."}, verr.Fields["team"])
	assert.Equal(t, []string{"A valid integer is required."}, verr.Fields["age"])
	assert.Equal(t, []string{"A valid integer is required."}, verr.Fields["total_points"])
	assert.NotContains(t, verr.Fields, "email")
	assert.NotContains(t, verr.Fields, "fitness_level")
}

func TestDecodeRecordPartialReportsEveryTypeError(t *testing.T) {
	w := Workout{Name: "Yoga Flow", Description: "Balance", DurationMinutes: 45, DifficultyLevel: "Beginner", TargetAudience: "All"}

	verr := decodeErr(t, DecodeRecord([]byte(`{"duration_minutes":"long","exercises":"Warm-up","name":"Yoga Flow II"}`), &w, w.Schema(), true))

	assert.Equal(t, []string{"A valid integer is required."}, verr.Fields["duration_minutes"])
	assert.Contains(t, verr.Fields, "exercises")
	assert.NotContains(t, verr.Fields, "name")
	assert.Equal(t, 45, w.DurationMinutes)
}
