package domain

import "time"

// Course is a unit of study offered by the school.
type Course struct {
	ID          string
	Code        string
	Name        string
	Credits     int
	Duration    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
