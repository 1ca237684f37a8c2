package auth

// OwnsTicket is the ownership guard applied before every ticket read,
// update and delete. Callers must respond to a failed guard exactly as
// they respond to a missing ticket, so a non-owner can never confirm
// that a ticket identifier exists.
func OwnsTicket(requesterID, ownerID int64) bool {
	return requesterID == ownerID
}
