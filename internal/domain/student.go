package domain

import "time"

// Student models an enrolled pupil. UserID links to the login account when one exists.
type Student struct {
	ID            string
	UserID        *string
	FirstName     string
	LastName      string
	DateOfBirth   *time.Time
	Gender        string
	Address       string
	ContactNumber string
	Nationality   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
