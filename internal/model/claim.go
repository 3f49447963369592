package model

import (
	"fmt"
	"time"
)

// Claim represents a request asserting ownership of a specific item.
// ItemID is a plain reference: deleting the item orphans the claim.
type Claim struct {
	ID            int64       `json:"id"`
	ItemID        int64       `json:"item_id"`
	ClaimantName  string      `json:"claimant_name"`
	ClaimantEmail string      `json:"claimant_email"`
	ClaimantPhone string      `json:"claimant_phone,omitempty"`
	Description   string      `json:"description"`
	Status        ClaimStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`

	// ItemTitle is joined at read time (not always populated).
	ItemTitle string `json:"item_title,omitempty"`
}

// UnknownItemTitle is the display title for claims whose item no longer exists.
const UnknownItemTitle = "Unknown Item"

// ClaimStatus is the lifecycle status of a claim.
type ClaimStatus string

// Claim statuses.
const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Valid reports whether the status is one of the known claim statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// ParseClaimStatus converts a raw string into a ClaimStatus, rejecting
// anything outside the known set.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	status := ClaimStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown claim status %q", s)
	}
	return status, nil
}
