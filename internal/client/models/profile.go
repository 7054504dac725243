// Package models defines client-side data models: the user profile kept in
// local preferences and the posts fetched from the remote feed.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserProfile is the single per-installation user record. The zero value is
// the all-defaults profile returned before anything was saved.
type UserProfile struct {
	FirstName string
	LastName  string
	Email     string

	// BirthDate uses the fixed "D/M/YYYY" text encoding, e.g. "5/6/1990".
	// It is stored as-is and never validated.
	BirthDate string

	// Age is non-negative by convention only.
	Age int
}

// IsZero reports whether p is the all-defaults profile.
func (p UserProfile) IsZero() bool {
	return p == UserProfile{}
}

// ParseAge converts free-form age input to an integer. Anything that is not
// a base-10 integer (after trimming spaces) becomes 0 instead of an error.
func ParseAge(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// FormatAge renders age for an editable field: 0 is shown as an empty field.
func FormatAge(age int) string {
	if age == 0 {
		return ""
	}
	return strconv.Itoa(age)
}

// FormatBirthDate encodes t as "D/M/YYYY" without zero padding, the format
// produced by the date picker.
func FormatBirthDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
