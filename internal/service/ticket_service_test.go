package service

import (
	"context"
	"strings"
	"testing"

	"github.com/it-tms/tms-service/internal/domain"
	"github.com/it-tms/tms-service/internal/events"
)

var alice = &domain.User{ID: 1, Username: "alice", Email: "alice@x.com", Role: domain.RoleUser}

func seedTicket(t *testing.T, svc *TicketService) *domain.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), alice, TicketCreateInput{
		Type:        "Incident",
		Category:    "Hardware",
		Title:       "laptop will not boot",
		Description: "black screen after power on",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return ticket
}

func TestCreate_Defaults(t *testing.T) {
	repo := newMockTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(repo, dispatcher)

	ticket := seedTicket(t, svc)

	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %q, want Open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("priority = %q, want Medium default", ticket.Priority)
	}
	if !strings.HasPrefix(ticket.ReferenceKey, "TCK-") {
		t.Fatalf("reference key %q missing prefix", ticket.ReferenceKey)
	}
	if ticket.OwnerID != alice.ID || ticket.CreatedBy != alice.Username {
		t.Fatalf("owner metadata not stamped: %+v", ticket)
	}

	published := dispatcher.published()
	if len(published) != 1 || published[0].Type != events.EventTicketCreated {
		t.Fatalf("expected one ticket_created event, got %+v", published)
	}
}

func TestCreate_UnrecognizedCategoryAndType(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), nil)

	ticket, err := svc.Create(context.Background(), alice, TicketCreateInput{
		Type:        "Banana",
		Category:    "Gibberish",
		Title:       "t",
		Description: "d",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Category != domain.CategoryUnrecognized {
		t.Fatalf("category = %q, want explicit unrecognized marker", ticket.Category)
	}
	if ticket.Type != domain.CategoryUnrecognized {
		t.Fatalf("type = %q, want explicit unrecognized marker", ticket.Type)
	}
}

func TestCreate_InvalidPriority(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), nil)

	_, err := svc.Create(context.Background(), alice, TicketCreateInput{
		Priority:    "Critical",
		Title:       "t",
		Description: "d",
	})
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestGetForUser_OwnershipCollapsesToNotFound(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), nil)
	ticket := seedTicket(t, svc)

	if _, err := svc.GetForUser(context.Background(), alice.ID, ticket.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	_, missingErr := svc.GetForUser(context.Background(), alice.ID, 9999)
	_, foreignErr := svc.GetForUser(context.Background(), 2, ticket.ID)

	if code := domainCode(t, foreignErr); code != "NOT_FOUND" {
		t.Fatalf("non-owner code = %q, want NOT_FOUND", code)
	}
	// The two outcomes must be indistinguishable so a non-owner cannot
	// confirm that a ticket id exists.
	if missingErr.Error() != foreignErr.Error() {
		t.Fatalf("outcomes differ: %q vs %q", missingErr, foreignErr)
	}
}

func TestListForUser_ScopedToOwner(t *testing.T) {
	repo := newMockTicketRepo()
	svc := NewTicketService(repo, nil)
	seedTicket(t, svc)

	mine, err := svc.ListForUser(context.Background(), alice.ID, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("owner list = %d tickets, want 1", len(mine))
	}
	if repo.lastFilter.OwnerID != alice.ID {
		t.Fatalf("filter owner = %d, want %d", repo.lastFilter.OwnerID, alice.ID)
	}

	theirs, err := svc.ListForUser(context.Background(), 2, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("other user sees %d tickets, want 0", len(theirs))
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newMockTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(repo, dispatcher)
	ticket := seedTicket(t, svc)

	newTitle := "laptop boots to bios only"
	newStatus := domain.TicketStatusInProgress
	updated, err := svc.Update(context.Background(), alice.ID, ticket.ID, TicketUpdateInput{
		Title:  &newTitle,
		Status: &newStatus,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != newTitle || updated.Status != newStatus {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Description != ticket.Description {
		t.Fatalf("untouched field changed")
	}

	published := dispatcher.published()
	last := published[len(published)-1]
	if last.Type != events.EventTicketUpdated {
		t.Fatalf("event = %q, want ticket_updated", last.Type)
	}
}

func TestUpdate_InvalidStatus(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), nil)
	ticket := seedTicket(t, svc)

	bad := domain.TicketStatus("Exploded")
	_, err := svc.Update(context.Background(), alice.ID, ticket.ID, TicketUpdateInput{Status: &bad})
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestUpdate_NonOwnerNotFound(t *testing.T) {
	svc := NewTicketService(newMockTicketRepo(), nil)
	ticket := seedTicket(t, svc)

	newTitle := "hijack"
	_, err := svc.Update(context.Background(), 2, ticket.ID, TicketUpdateInput{Title: &newTitle})
	if code := domainCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %q, want NOT_FOUND (never forbidden)", code)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(repo, dispatcher)
	ticket := seedTicket(t, svc)

	if err := svc.Delete(context.Background(), 2, ticket.ID); err == nil {
		t.Fatalf("non-owner delete must fail")
	} else if code := domainCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %q, want NOT_FOUND", code)
	}

	if err := svc.Delete(context.Background(), alice.ID, ticket.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), alice.ID, ticket.ID); err == nil {
		t.Fatalf("ticket still readable after delete")
	}

	published := dispatcher.published()
	last := published[len(published)-1]
	if last.Type != events.EventTicketDeleted {
		t.Fatalf("event = %q, want ticket_deleted", last.Type)
	}
}
