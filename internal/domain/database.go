package domain

import "time"

// PropertySchema names one column of a database and its type.
type PropertySchema struct {
	Name string
	Type string
}

// Database describes a workspace database.
type Database struct {
	ID             string
	Title          string
	URL            string
	ParentType     string
	ParentPageID   string
	CreatedTime    time.Time
	LastEditedTime time.Time
	Properties     []PropertySchema
}

// Entry is one database row with its values already formatted.
type Entry struct {
	ID     string
	Values map[string]string
}
