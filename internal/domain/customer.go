package domain

import "strings"

// Customer is a row of the support engagements database.
type Customer struct {
	ID          string
	Name        string
	FreshdeskID string
	URL         string
}

// DisplayName returns the customer name, or "Unknown" when the title is empty.
func (c Customer) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return "Unknown"
	}
	return c.Name
}

// HelpdeskCompanyID returns the trimmed helpdesk identifier.
func (c Customer) HelpdeskCompanyID() string {
	return strings.TrimSpace(c.FreshdeskID)
}
