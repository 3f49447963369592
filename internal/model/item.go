package model

import (
	"fmt"
	"time"
)

// Item represents a found object reported to the lost & found.
type Item struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	DateFound   string     `json:"date_found"`
	ImageURL    string     `json:"image_url,omitempty"`
	FinderName  string     `json:"finder_name"`
	FinderEmail string     `json:"finder_email"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ItemStatus is the lifecycle status of an item.
type ItemStatus string

// Item statuses.
const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusClaimed  ItemStatus = "claimed"
	ItemStatusRejected ItemStatus = "rejected"
)

// Valid reports whether the status is one of the known item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusApproved, ItemStatusClaimed, ItemStatusRejected:
		return true
	}
	return false
}

// ParseItemStatus converts a raw string into an ItemStatus, rejecting
// anything outside the known set.
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown item status %q", s)
	}
	return status, nil
}

// Categories is the fixed set of item categories.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Accessories",
	"Sports Equipment",
	"Other",
}

// ValidCategory reports whether the category is one of the known categories.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
