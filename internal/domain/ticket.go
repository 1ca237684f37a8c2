package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "Open"
	TicketStatusAssigned    TicketStatus = "Assigned"
	TicketStatusReopened    TicketStatus = "Reopened"
	TicketStatusInProgress  TicketStatus = "In Progress"
	TicketStatusResolved    TicketStatus = "Resolved"
	TicketStatusClosed      TicketStatus = "Closed"
	TicketStatusNotResolved TicketStatus = "Not Resolved"
)

// ValidStatus reports whether the status belongs to the closed enumeration.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusAssigned, TicketStatusReopened,
		TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed,
		TicketStatusNotResolved:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// ValidPriority reports whether the priority belongs to the shortlist.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// CategoryUnrecognized marks category/type values outside the shortlist.
// Both fields are stored as text for forward compatibility, but the
// boundary never persists an arbitrary string silently.
const CategoryUnrecognized = "Unrecognized"

var knownCategories = map[string]struct{}{
	"Hardware": {},
	"Software": {},
	"Network":  {},
	"Access":   {},
	"Other":    {},
}

var knownTypes = map[string]struct{}{
	"Incident":        {},
	"Service Request": {},
	"Change Request":  {},
	"Asset Request":   {},
}

// NormalizeCategory maps a free-text category onto the shortlist, falling
// back to the explicit unrecognized marker.
func NormalizeCategory(category string) string {
	if _, ok := knownCategories[category]; ok {
		return category
	}
	return CategoryUnrecognized
}

// NormalizeType maps a free-text ticket type onto the shortlist, falling
// back to the explicit unrecognized marker.
func NormalizeType(ticketType string) string {
	if _, ok := knownTypes[ticketType]; ok {
		return ticketType
	}
	return CategoryUnrecognized
}

// Ticket is the aggregate for support requests. Every ticket is owned by
// exactly one user; mutation is restricted to that owner.
type Ticket struct {
	ID            int64
	ReferenceKey  string
	OwnerID       int64
	CreatedBy     string
	Type          string
	Category      string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	AgentResponse *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
