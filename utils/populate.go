package utils

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"octofit/db"
	"octofit/models"
	"octofit/services"
)

// SeedSummary counts the records written by PopulateSampleData.
type SeedSummary struct {
	Users       int
	Teams       int
	Activities  int
	Leaderboard int
	Workouts    int
}

var sampleActivityTypes = []string{"Running", "Weightlifting", "Yoga", "Swimming", "Cycling"}

func sampleUsers() (marvel, dc []models.User) {
	marvel = []models.User{
		{Name: "Tony Stark", Email: "tony.stark@marvel.com", Team: "Team Marvel", Age: 45, FitnessLevel: "Advanced", TotalPoints: 2500},
		{Name: "Steve Rogers", Email: "steve.rogers@marvel.com", Team: "Team Marvel", Age: 100, FitnessLevel: "Expert", TotalPoints: 3500},
		{Name: "Bruce Banner", Email: "bruce.banner@marvel.com", Team: "Team Marvel", Age: 40, FitnessLevel: "Intermediate", TotalPoints: 2000},
		{Name: "Natasha Romanoff", Email: "natasha.romanoff@marvel.com", Team: "Team Marvel", Age: 35, FitnessLevel: "Expert", TotalPoints: 3000},
	}
	dc = []models.User{
		{Name: "Clark Kent", Email: "clark.kent@dc.com", Team: "Team DC", Age: 35, FitnessLevel: "Expert", TotalPoints: 3200},
		{Name: "Bruce Wayne", Email: "bruce.wayne@dc.com", Team: "Team DC", Age: 40, FitnessLevel: "Advanced", TotalPoints: 2800},
		{Name: "Diana Prince", Email: "diana.prince@dc.com", Team: "Team DC", Age: 30, FitnessLevel: "Expert", TotalPoints: 3400},
		{Name: "Barry Allen", Email: "barry.allen@dc.com", Team: "Team DC", Age: 30, FitnessLevel: "Advanced", TotalPoints: 2600},
	}
	return marvel, dc
}

func sampleTeam(name, description string, members []models.User) models.Team {
	team := models.Team{Name: name, Description: description, CreatedAt: "2025-01-01"}
	for _, u := range members {
		team.Members = append(team.Members, u.Email)
		team.TotalPoints += u.TotalPoints
	}
	return team
}

func sampleActivities(users []models.User) []models.Activity {
	var activities []models.Activity
	for i, u := range users {
		for j, kind := range sampleActivityTypes {
			a := models.Activity{
				UserEmail:       u.Email,
				UserName:        u.Name,
				ActivityType:    kind,
				DurationMinutes: 30 + j*10,
				CaloriesBurned:  200 + j*50,
				Date:            fmt.Sprintf("2025-02-%02d", i%10+1),
			}
			if kind == "Running" || kind == "Cycling" {
				distance := 5.0 + float64(j)*0.5
				a.DistanceKm = &distance
			}
			activities = append(activities, a)
		}
	}
	return activities
}

func sampleWorkouts() []models.Workout {
	return []models.Workout{
		{Name: "Morning Run", Description: "Begin your day with an energizing 5K run", DurationMinutes: 30, DifficultyLevel: "Intermediate",
			Exercises: []string{"Warm-up jog", "Main 5K run", "Cool-down walk"}, TargetAudience: "All fitness levels"},
		{Name: "Strength Training", Description: "Build muscle with compound weightlifting exercises", DurationMinutes: 60, DifficultyLevel: "Advanced",
			Exercises: []string{"Squats", "Bench Press", "Deadlifts"}, TargetAudience: "Intermediate to Advanced"},
		{Name: "Yoga Flow", Description: "Improve flexibility and balance", DurationMinutes: 45, DifficultyLevel: "Beginner",
			Exercises: []string{"Warm-up", "Sun Salutation", "Standing poses", "Savasana"}, TargetAudience: "All fitness levels"},
		{Name: "HIIT Workout", Description: "High-intensity interval training for maximum calorie burn", DurationMinutes: 30, DifficultyLevel: "Advanced",
			Exercises: []string{"Burpees", "Mountain Climbers", "Jump Squats", "Push-ups"}, TargetAudience: "Advanced"},
		{Name: "Swimming Session", Description: "Low-impact full-body cardio workout", DurationMinutes: 45, DifficultyLevel: "Intermediate",
			Exercises: []string{"Freestyle", "Backstroke", "Breaststroke", "Cool-down"}, TargetAudience: "All fitness levels"},
	}
}

// PopulateSampleData wipes every collection, loads the sample superhero data
// set and derives the leaderboard from it with agg.
func PopulateSampleData(ctx context.Context, stores db.Stores, agg *services.LeaderboardAggregator) (*SeedSummary, error) {
	for name, wipe := range map[string]func(context.Context) (int64, error){
		models.UsersCollection:       stores.Users.DeleteAll,
		models.TeamsCollection:       stores.Teams.DeleteAll,
		models.ActivitiesCollection:  stores.Activities.DeleteAll,
		models.LeaderboardCollection: stores.Leaderboard.DeleteAll,
		models.WorkoutsCollection:    stores.Workouts.DeleteAll,
	} {
		if _, err := wipe(ctx); err != nil {
			return nil, fmt.Errorf("clear %s: %w", name, err)
		}
	}

	summary := &SeedSummary{}
	marvel, dc := sampleUsers()
	users := append(append([]models.User{}, marvel...), dc...)
	for _, u := range users {
		if _, err := stores.Users.Insert(ctx, u); err != nil {
			return nil, fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		summary.Users++
	}

	teams := []models.Team{
		sampleTeam("Team Marvel", "Marvel Universe Team", marvel),
		sampleTeam("Team DC", "DC Universe Team", dc),
	}
	for _, t := range teams {
		if _, err := stores.Teams.Insert(ctx, t); err != nil {
			return nil, fmt.Errorf("insert team %s: %w", t.Name, err)
		}
		summary.Teams++
	}

	for _, a := range sampleActivities(users) {
		if _, err := stores.Activities.Insert(ctx, a); err != nil {
			return nil, fmt.Errorf("insert activity: %w", err)
		}
		summary.Activities++
	}

	for _, w := range sampleWorkouts() {
		if _, err := stores.Workouts.Insert(ctx, w); err != nil {
			return nil, fmt.Errorf("insert workout %s: %w", w.Name, err)
		}
		summary.Workouts++
	}

	result, err := agg.Recompute(ctx)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}
	summary.Leaderboard = result.Inserted

	log.Info().
		Int("users", summary.Users).
		Int("teams", summary.Teams).
		Int("activities", summary.Activities).
		Int("leaderboard", summary.Leaderboard).
		Int("workouts", summary.Workouts).
		Msg("sample data loaded")
	return summary, nil
}
