package auth

import "testing"

func TestOwnsTicket(t *testing.T) {
	if !OwnsTicket(1, 1) {
		t.Fatalf("owner must pass the guard")
	}
	if OwnsTicket(1, 2) {
		t.Fatalf("non-owner must fail the guard")
	}
	if OwnsTicket(0, 2) {
		t.Fatalf("zero requester must fail the guard")
	}
}
