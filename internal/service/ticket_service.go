package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/it-tms/tms-service/internal/auth"
	"github.com/it-tms/tms-service/internal/domain"
	"github.com/it-tms/tms-service/internal/events"
	"github.com/it-tms/tms-service/internal/repository"
	apperrors "github.com/it-tms/tms-service/pkg/util"
)

// TicketService coordinates owner-scoped ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Type        string
	Category    string
	Priority    domain.TicketPriority
	Title       string
	Description string
}

// TicketUpdateInput carries a partial update; nil fields are untouched.
type TicketUpdateInput struct {
	Type          *string
	Category      *string
	Title         *string
	Description   *string
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	AgentResponse *string
}

// TicketListFilter describes listing filters for the owner's tickets.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// Create opens a new ticket owned by the user. Category and type are
// normalized against the shortlist; values outside it are stored as the
// explicit unrecognized marker rather than accepted verbatim.
func (s *TicketService) Create(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		ReferenceKey: generateTicketKey(),
		OwnerID:      user.ID,
		CreatedBy:    user.Username,
		Type:         domain.NormalizeType(input.Type),
		Category:     domain.NormalizeCategory(input.Category),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     input.Priority,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketCreatedPayload{
			ReferenceKey: ticket.ReferenceKey,
			Category:     ticket.Category,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// ListForUser returns the requester's own tickets.
func (s *TicketService) ListForUser(ctx context.Context, userID int64, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		OwnerID:    userID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	return s.tickets.ListByOwner(ctx, repoFilter)
}

// GetForUser fetches a ticket enforcing ownership.
func (s *TicketService) GetForUser(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	return s.fetchOwned(ctx, userID, ticketID)
}

// Update applies a partial update to an owned ticket.
func (s *TicketService) Update(ctx context.Context, userID, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.fetchOwned(ctx, userID, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	var changed []string

	if input.Type != nil {
		ticket.Type = domain.NormalizeType(*input.Type)
		changed = append(changed, "type")
	}
	if input.Category != nil {
		ticket.Category = domain.NormalizeCategory(*input.Category)
		changed = append(changed, "category")
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
		changed = append(changed, "title")
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
		changed = append(changed, "description")
	}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
		changed = append(changed, "status")
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
		changed = append(changed, "priority")
	}
	if input.AgentResponse != nil {
		ticket.AgentResponse = input.AgentResponse
		changed = append(changed, "agent_response")
	}

	if len(changed) == 0 {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		ActorID:  userID,
		Payload: events.TicketUpdatedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Fields:    changed,
		},
	})
	return ticket, nil
}

// Delete removes an owned ticket.
func (s *TicketService) Delete(ctx context.Context, userID, ticketID int64) error {
	ticket, err := s.fetchOwned(ctx, userID, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  userID,
		Payload: events.TicketDeletedPayload{
			ReferenceKey: ticket.ReferenceKey,
		},
	})
	return nil
}

// fetchOwned loads a ticket and applies the ownership guard. A ticket
// owned by someone else yields the same not-found outcome as a missing
// one, so existence is never confirmed to a non-owner.
func (s *TicketService) fetchOwned(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !auth.OwnsTicket(userID, ticket.OwnerID) {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
