package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func newClaim(itemID int64) *model.Claim {
	return &model.Claim{
		ItemID:        itemID,
		ClaimantName:  "Ana Kovac",
		ClaimantEmail: "ana@example.com",
		ClaimantPhone: "040123456",
		Description:   "It has my initials on the strap",
		Status:        model.ClaimStatusPending,
	}
}

func TestCreateAndGetClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Backpack"))
	claim, err := CreateClaim(ctx, database, newClaim(item.ID))
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected status 'pending', got %q", claim.Status)
	}
	if claim.ItemTitle != "Backpack" {
		t.Errorf("expected joined item title 'Backpack', got %q", claim.ItemTitle)
	}
}

func TestListClaimsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Backpack"))
	first, _ := CreateClaim(ctx, database, newClaim(item.ID))
	second, _ := CreateClaim(ctx, database, newClaim(item.ID))

	claims, err := ListClaims(ctx, database, "")
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].ID != second.ID || claims[1].ID != first.ID {
		t.Errorf("expected newest first, got %d then %d", claims[0].ID, claims[1].ID)
	}
}

func TestListClaimsUnknownItemFallback(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Doomed"))
	claim, _ := CreateClaim(ctx, database, newClaim(item.ID))
	DeleteItem(ctx, database, item.ID)

	claims, err := ListClaims(ctx, database, "")
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("expected orphaned claim to survive, got %d claims", len(claims))
	}
	if claims[0].ItemTitle != model.UnknownItemTitle {
		t.Errorf("expected title %q, got %q", model.UnknownItemTitle, claims[0].ItemTitle)
	}
	// Stored fields are untouched by the item deletion.
	if claims[0].ItemID != item.ID {
		t.Errorf("expected item_id %d preserved, got %d", item.ID, claims[0].ItemID)
	}
	if claims[0].ClaimantName != claim.ClaimantName {
		t.Errorf("claimant fields changed on orphaning")
	}
}

func TestUpdateClaimStatusConditional(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Backpack"))
	claim, _ := CreateClaim(ctx, database, newClaim(item.ID))

	rows, err := UpdateClaimStatus(ctx, database, claim.ID, model.ClaimStatusPending, model.ClaimStatusRejected)
	if err != nil {
		t.Fatalf("UpdateClaimStatus: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 row changed, got %d", rows)
	}

	rows, _ = UpdateClaimStatus(ctx, database, claim.ID, model.ClaimStatusPending, model.ClaimStatusApproved)
	if rows != 0 {
		t.Errorf("expected 0 rows for stale precondition, got %d", rows)
	}
}

func TestClaimFilterByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, newItem("Backpack"))
	CreateClaim(ctx, database, newClaim(item.ID))
	rejected, _ := CreateClaim(ctx, database, newClaim(item.ID))
	UpdateClaimStatus(ctx, database, rejected.ID, model.ClaimStatusPending, model.ClaimStatusRejected)

	pending, err := ListClaims(ctx, database, model.ClaimStatusPending)
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending claim, got %d", len(pending))
	}
}
