package models

// Group is a named collection of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
