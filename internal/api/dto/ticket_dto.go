package dto

import (
	"time"

	"github.com/it-tms/tms-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Type        string                `json:"type"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
}

// UpdateTicketRequest carries a partial update; absent fields stay as-is.
type UpdateTicketRequest struct {
	Type          *string                `json:"type"`
	Category      *string                `json:"category"`
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Status        *domain.TicketStatus   `json:"status"`
	Priority      *domain.TicketPriority `json:"priority"`
	AgentResponse *string                `json:"agent_response"`
}

// TicketResponse is the outward ticket view.
type TicketResponse struct {
	ID            int64                 `json:"ticket_id"`
	ReferenceKey  string                `json:"reference_key"`
	CreatedBy     string                `json:"created_by"`
	Type          string                `json:"type"`
	Category      string                `json:"category"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	AgentResponse *string               `json:"agent_response"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewTicketResponse converts the domain model.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		ReferenceKey:  ticket.ReferenceKey,
		CreatedBy:     ticket.CreatedBy,
		Type:          ticket.Type,
		Category:      ticket.Category,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		AgentResponse: ticket.AgentResponse,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}
