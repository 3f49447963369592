package model

import "testing"

func testItems() []Item {
	return []Item{
		{ID: 1, Title: "Blue Backpack", Description: "Nylon, two pockets", Category: "Accessories", Location: "Gym"},
		{ID: 2, Title: "Calculator", Description: "TI-84", Category: "Electronics", Location: "Room 204"},
		{ID: 3, Title: "Scarf", Description: "Red wool scarf", Category: "Clothing", Location: "Library entrance"},
	}
}

func TestFilterItemsEmptyQueryMatchesAll(t *testing.T) {
	items := testItems()
	got := FilterItems(items, "", "")
	if len(got) != len(items) {
		t.Errorf("expected %d items, got %d", len(items), len(got))
	}
}

func TestFilterItemsCaseInsensitive(t *testing.T) {
	got := FilterItems(testItems(), "BACKPACK", "")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected item 1, got %v", got)
	}

	// Substring over location.
	got = FilterItems(testItems(), "library", "")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected item 3, got %v", got)
	}

	// Substring over description.
	got = FilterItems(testItems(), "ti-84", "")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected item 2, got %v", got)
	}
}

func TestFilterItemsByCategory(t *testing.T) {
	got := FilterItems(testItems(), "", "Electronics")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected item 2, got %v", got)
	}

	got = FilterItems(testItems(), "scarf", "Electronics")
	if len(got) != 0 {
		t.Errorf("expected no items for mismatched query+category, got %d", len(got))
	}
}

func TestFilterItemsPreservesOrder(t *testing.T) {
	got := FilterItems(testItems(), "o", "")
	for i := 1; i < len(got); i++ {
		if got[i-1].ID > got[i].ID {
			t.Errorf("order not preserved: %v", got)
		}
	}
}

func TestParseItemStatus(t *testing.T) {
	if _, err := ParseItemStatus("approved"); err != nil {
		t.Errorf("expected 'approved' to parse: %v", err)
	}
	if _, err := ParseItemStatus("lost"); err == nil {
		t.Error("expected unknown status to be rejected")
	}
	if _, err := ParseItemStatus(""); err == nil {
		t.Error("expected empty status to be rejected")
	}
}

func TestParseClaimStatus(t *testing.T) {
	if _, err := ParseClaimStatus("rejected"); err != nil {
		t.Errorf("expected 'rejected' to parse: %v", err)
	}
	// "claimed" is an item status, not a claim status.
	if _, err := ParseClaimStatus("claimed"); err == nil {
		t.Error("expected 'claimed' to be rejected for claims")
	}
}
