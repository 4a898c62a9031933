// Package model defines domain entities for the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role constants.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DayLayout is the calendar-day format used by DailyCount.
const DayLayout = "2006-01-02"

// DailyCount throttles recipe generation per calendar day (UTC).
type DailyCount struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Count int    `json:"count" validate:"min=0"`
}

// User is an identity and entitlement record.
type User struct {
	ID           string       `json:"id" validate:"required"`
	Email        string       `json:"email" validate:"required,email"`
	Password     string       `json:"password,omitempty"`
	Username     string       `json:"username" validate:"required"`
	Role         string       `json:"role" validate:"oneof=admin user"`
	IsActive     bool         `json:"isActive"`
	Membership   MembershipID `json:"membership" validate:"membership"`
	ExpiryDate   *int64       `json:"expiryDate,omitempty"`
	SavedRecipes []Recipe     `json:"savedRecipes" validate:"dive"`
	DailyCount   *DailyCount  `json:"dailyCount,omitempty"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailMatches compares emails case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// IsMembershipExpired reports whether the user can no longer generate recipes.
// Admins and lifetime members never expire; a missing expiry date means expired.
func (u *User) IsMembershipExpired(now time.Time) bool {
	if u.IsAdmin() || u.Membership == MembershipLifetime {
		return false
	}
	if u.ExpiryDate == nil {
		return true
	}
	return now.UnixMilli() > *u.ExpiryDate
}

// CountToday returns the number of recipes generated on the given day.
func (u *User) CountToday(now time.Time) int {
	if u.DailyCount == nil || u.DailyCount.Date != now.UTC().Format(DayLayout) {
		return 0
	}
	return u.DailyCount.Count
}

// IncrementDailyCount bumps today's counter, resetting it on a new day.
func (u *User) IncrementDailyCount(now time.Time) {
	today := now.UTC().Format(DayLayout)
	count := u.CountToday(now) + 1
	u.DailyCount = &DailyCount{Date: today, Count: count}
}

// HasRecipe reports whether a recipe with the id is saved.
func (u *User) HasRecipe(id string) bool {
	for _, r := range u.SavedRecipes {
		if r.ID == id {
			return true
		}
	}
	return false
}

// RemoveRecipe drops the recipe with the id and reports whether it was present.
func (u *User) RemoveRecipe(id string) bool {
	kept := make([]Recipe, 0, len(u.SavedRecipes))
	for _, r := range u.SavedRecipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(kept) != len(u.SavedRecipes)
	u.SavedRecipes = kept
	return removed
}

// Snapshot returns a copy without credentials, suitable for the session slot.
func (u User) Snapshot() User {
	u.Password = ""
	u.SavedRecipes = append([]Recipe(nil), u.SavedRecipes...)
	if u.SavedRecipes == nil {
		u.SavedRecipes = []Recipe{}
	}
	return u
}

// Validate checks the record against its schema and the collection invariants
// that tags cannot express.
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: user %q: %v", ErrInvalidRecord, u.ID, err)
	}
	seen := make(map[string]struct{}, len(u.SavedRecipes))
	for _, r := range u.SavedRecipes {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: user %q: duplicate saved recipe %q", ErrInvalidRecord, u.ID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
