package services

import "octofit/models"

// ReferenceIndex resolves the email-based soft references between users and
// activities. Callers join entities only through it, so the lookup strategy
// can change without touching them.
type ReferenceIndex struct {
	users      map[string]models.User
	activities map[string][]models.Activity
	dangling   []models.Activity
}

// NewReferenceIndex indexes users and activities by email. Emails are matched
// exactly as stored. When several users share an email the first one wins.
func NewReferenceIndex(users []models.User, activities []models.Activity) *ReferenceIndex {
	idx := &ReferenceIndex{
		users:      make(map[string]models.User, len(users)),
		activities: make(map[string][]models.Activity),
	}
	for _, u := range users {
		if _, seen := idx.users[u.Email]; !seen {
			idx.users[u.Email] = u
		}
	}
	for _, a := range activities {
		if _, known := idx.users[a.UserEmail]; !known {
			idx.dangling = append(idx.dangling, a)
		}
		idx.activities[a.UserEmail] = append(idx.activities[a.UserEmail], a)
	}
	return idx
}

// UserFor returns the user that email refers to.
func (r *ReferenceIndex) UserFor(email string) (models.User, bool) {
	u, ok := r.users[email]
	return u, ok
}

// ActivitiesFor returns the activities logged under email, in storage order.
func (r *ReferenceIndex) ActivitiesFor(email string) []models.Activity {
	return r.activities[email]
}

// ActivityTotals returns the activity count and calories burned for email.
func (r *ReferenceIndex) ActivityTotals(email string) (count, calories int) {
	for _, a := range r.activities[email] {
		count++
		calories += a.CaloriesBurned
	}
	return count, calories
}

// DanglingActivities returns activities whose user_email matches no user.
func (r *ReferenceIndex) DanglingActivities() []models.Activity {
	return r.dangling
}
