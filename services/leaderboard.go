package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"octofit/db"
	"octofit/models"
	"octofit/observability"
)

// PublishMode selects how a recomputed snapshot replaces the previous one.
type PublishMode string

const (
	// PublishTwoPhase deletes every record and then inserts the new set.
	// Readers racing with it can observe an empty or partial leaderboard.
	PublishTwoPhase PublishMode = "two-phase"
	// PublishSwap builds the new set aside and publishes it in one step.
	PublishSwap PublishMode = "swap"
)

// ParsePublishMode maps a configuration value to a PublishMode. Empty means two-phase.
func ParsePublishMode(value string) (PublishMode, error) {
	switch PublishMode(value) {
	case "", PublishTwoPhase:
		return PublishTwoPhase, nil
	case PublishSwap:
		return PublishSwap, nil
	default:
		return "", fmt.Errorf("unknown leaderboard publish mode %q", value)
	}
}

const snapshotDateLayout = "2006-01-02"

// RecomputeResult summarises one leaderboard recompute.
type RecomputeResult struct {
	Entries  []models.Leaderboard
	Mode     PublishMode
	Deleted  int64
	Inserted int
	Dangling int
	Duration time.Duration
}

// LeaderboardAggregator rebuilds the leaderboard collection from users and activities.
type LeaderboardAggregator struct {
	mu         sync.Mutex
	users      db.Lister[models.User]
	activities db.Lister[models.Activity]
	board      db.SnapshotWriter[models.Leaderboard]
	mode       PublishMode
	now        func() time.Time
}

// NewLeaderboardAggregator creates an aggregator writing to board.
func NewLeaderboardAggregator(users db.Lister[models.User], activities db.Lister[models.Activity], board db.SnapshotWriter[models.Leaderboard], mode PublishMode) *LeaderboardAggregator {
	if mode == "" {
		mode = PublishTwoPhase
	}
	return &LeaderboardAggregator{
		users:      users,
		activities: activities,
		board:      board,
		mode:       mode,
		now:        time.Now,
	}
}

// SetClock overrides the clock used for updated_at.
func (a *LeaderboardAggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Mode returns the publish mode in use.
func (a *LeaderboardAggregator) Mode() PublishMode {
	return a.mode
}

// Recompute replaces the whole leaderboard with a snapshot derived from the
// current users and activities. Runs are serialised so two recomputes never
// interleave their deletes and inserts.
func (a *LeaderboardAggregator) Recompute(ctx context.Context) (*RecomputeResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	started := time.Now()
	result, err := a.recompute(ctx)
	if err != nil {
		observability.RecordRecomputeFailure()
		return nil, err
	}
	result.Duration = time.Since(started)
	observability.RecordRecompute(time.Now(), result.Duration, result.Inserted, result.Dangling)

	log.Info().
		Str("mode", string(result.Mode)).
		Int64("deleted", result.Deleted).
		Int("inserted", result.Inserted).
		Dur("took", result.Duration).
		Msg("leaderboard recomputed")
	return result, nil
}

func (a *LeaderboardAggregator) recompute(ctx context.Context) (*RecomputeResult, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	activities, err := a.activities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	refs := NewReferenceIndex(users, activities)
	if dangling := refs.DanglingActivities(); len(dangling) > 0 {
		log.Warn().Int("count", len(dangling)).Msg("activities reference unknown users")
	}

	entries := BuildLeaderboard(users, refs, a.now().Format(snapshotDateLayout))
	result := &RecomputeResult{
		Entries:  entries,
		Mode:     a.mode,
		Inserted: len(entries),
		Dangling: len(refs.DanglingActivities()),
	}

	switch a.mode {
	case PublishSwap:
		replaced, err := a.board.Swap(ctx, entries)
		if err != nil {
			return nil, fmt.Errorf("publish leaderboard: %w", err)
		}
		result.Deleted = replaced
	default:
		deleted, err := a.board.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear leaderboard: %w", err)
		}
		result.Deleted = deleted
		if err := a.board.InsertMany(ctx, entries); err != nil {
			return nil, fmt.Errorf("insert leaderboard: %w", err)
		}
	}
	return result, nil
}

// BuildLeaderboard ranks users by total points, highest first. Users with
// equal points keep their relative input order. Ranks run from 1 to len(users).
func BuildLeaderboard(users []models.User, refs *ReferenceIndex, updatedAt string) []models.Leaderboard {
	ranked := make([]models.User, len(users))
	copy(ranked, users)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})

	entries := make([]models.Leaderboard, 0, len(ranked))
	for i, u := range ranked {
		count, calories := refs.ActivityTotals(u.Email)
		teamName := u.Team
		entries = append(entries, models.Leaderboard{
			Rank:                i + 1,
			UserName:            u.Name,
			UserEmail:           u.Email,
			Team:                u.Team,
			TeamName:            &teamName,
			Points:              u.TotalPoints,
			ActivitiesCount:     count,
			TotalCaloriesBurned: calories,
			UpdatedAt:           updatedAt,
		})
	}
	return entries
}
