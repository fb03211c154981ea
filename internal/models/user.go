package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserSettings struct {
	DailyGoal            int     `json:"daily_goal"`
	TargetLevels         []Level `json:"target_levels"`
	NewWordLimit         int     `json:"new_word_limit"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

// DefaultUserSettings are applied to every new account.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		DailyGoal:            20,
		TargetLevels:         []Level{LevelA1, LevelA2},
		NewWordLimit:         10,
		NotificationsEnabled: true,
	}
}

// UserStats is the per-learner streak and mastery bookkeeping. LastStudyDate
// is a calendar date; only its year, month and day are meaningful.
type UserStats struct {
	TotalWordsLearned int        `json:"total_words_learned"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastStudyDate     *time.Time `json:"last_study_date"`
}

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Settings     UserSettings `json:"settings"`
	Stats        UserStats    `json:"stats"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
