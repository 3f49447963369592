package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// Service owns the item and claim lifecycles. It is the only code allowed to
// change a status, and claim approval is the only place where both entities
// are mutated together.
type Service struct {
	db *sql.DB
}

// NewService constructs a Service over the given database.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// ItemInput carries the submitter-provided fields of a found-item report.
type ItemInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	DateFound   string
	ImageURL    string
	FinderName  string
	FinderEmail string
}

// CreateItem validates a report and inserts it with status forced to pending,
// whatever the caller may have had in mind.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	var missing []string
	for field, value := range map[string]string{
		"title":        in.Title,
		"category":     in.Category,
		"location":     in.Location,
		"date_found":   in.DateFound,
		"finder_name":  in.FinderName,
		"finder_email": in.FinderEmail,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if !model.ValidCategory(in.Category) {
		return nil, &ValidationError{Fields: []string{"category"}}
	}
	if _, err := time.Parse("2006-01-02", in.DateFound); err != nil {
		return nil, &ValidationError{Fields: []string{"date_found"}}
	}

	return store.CreateItem(ctx, s.db, &model.Item{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		DateFound:   in.DateFound,
		ImageURL:    in.ImageURL,
		FinderName:  in.FinderName,
		FinderEmail: in.FinderEmail,
		Status:      model.ItemStatusPending,
	})
}

// TransitionItem moves an item along one of its allowed edges. The persisted
// update is conditional on the observed status so that two concurrent admin
// sessions cannot both win the same edge.
func (s *Service) TransitionItem(ctx context.Context, id int64, target model.ItemStatus) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}

	if !CanTransitionItem(item.Status, target) {
		return nil, fmt.Errorf("item %d: %s -> %s: %w", id, item.Status, target, ErrInvalidTransition)
	}

	rows, err := store.UpdateItemStatus(ctx, s.db, id, item.Status, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The item changed under us between the read and the write.
		current, err := store.GetItem(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("item %d: %w", id, ErrItemUnavailable)
	}

	metrics.RecordTransition("item", string(item.Status), string(target))
	return store.GetItem(ctx, s.db, id)
}

// DeleteItem removes an item unconditionally, regardless of status. Claims
// referencing the item stay behind as orphans; that gap is deliberate.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	deleted, err := store.DeleteItem(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// ItemFilter narrows ListItems. Status is pushed to the store; Query and
// Category are applied in memory over the fetched ordered set.
type ItemFilter struct {
	Status   model.ItemStatus
	Query    string
	Category string
}

// ListItems returns items newest-first, filtered.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.db, filter.Status)
	if err != nil {
		return nil, err
	}
	return model.FilterItems(items, filter.Query, filter.Category), nil
}

// GetItem returns a single item by ID.
func (s *Service) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return item, nil
}

// ClaimInput carries the claimant-provided fields of a claim request.
type ClaimInput struct {
	ClaimantName  string
	ClaimantEmail string
	ClaimantPhone string
	Description   string
}

// CreateClaim validates a claim and inserts it with status pending. The
// referenced item must exist, but is not required to be approved: claims
// against pending or already-claimed items are accepted and sit with the
// administrator.
func (s *Service) CreateClaim(ctx context.Context, itemID int64, in ClaimInput) (*model.Claim, error) {
	var missing []string
	for field, value := range map[string]string{
		"claimant_name":  in.ClaimantName,
		"claimant_email": in.ClaimantEmail,
		"description":    in.Description,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	item, err := store.GetItem(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	return store.CreateClaim(ctx, s.db, &model.Claim{
		ItemID:        itemID,
		ClaimantName:  in.ClaimantName,
		ClaimantEmail: in.ClaimantEmail,
		ClaimantPhone: in.ClaimantPhone,
		Description:   in.Description,
		Status:        model.ClaimStatusPending,
	})
}

// TransitionClaim moves a claim along one of its allowed edges. Rejection only
// touches the claim; approval runs the item cascade atomically.
func (s *Service) TransitionClaim(ctx context.Context, id int64, target model.ClaimStatus) (*model.Claim, error) {
	if target == model.ClaimStatusApproved {
		return s.approveClaim(ctx, id)
	}

	claim, err := store.GetClaim(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, fmt.Errorf("claim %d: %w", id, ErrNotFound)
	}

	if !CanTransitionClaim(claim.Status, target) {
		return nil, fmt.Errorf("claim %d: %s -> %s: %w", id, claim.Status, target, ErrInvalidTransition)
	}

	rows, err := store.UpdateClaimStatus(ctx, s.db, id, claim.Status, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("claim %d: %w", id, ErrItemUnavailable)
	}

	metrics.RecordTransition("claim", string(claim.Status), string(target))
	return store.GetClaim(ctx, s.db, id)
}

// ListClaims returns claims newest-first with joined item titles, optionally
// filtered by status.
func (s *Service) ListClaims(ctx context.Context, status model.ClaimStatus) ([]model.Claim, error) {
	return store.ListClaims(ctx, s.db, status)
}

// Stats summarizes the moderation workload for the admin dashboard.
type Stats struct {
	TotalItems     int                       `json:"total_items"`
	ItemsByStatus  map[model.ItemStatus]int  `json:"items_by_status"`
	TotalClaims    int                       `json:"total_claims"`
	ClaimsByStatus map[model.ClaimStatus]int `json:"claims_by_status"`
}

// GetStats counts items and claims grouped by status.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	itemCounts, err := store.CountItemsByStatus(ctx, s.db)
	if err != nil {
		return nil, err
	}
	claimCounts, err := store.CountClaimsByStatus(ctx, s.db)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ItemsByStatus: itemCounts, ClaimsByStatus: claimCounts}
	for _, n := range itemCounts {
		stats.TotalItems += n
	}
	for _, n := range claimCounts {
		stats.TotalClaims += n
	}
	return stats, nil
}

// approveClaim is the consistency coordinator: claim pending->approved and
// item approved->claimed in one transaction. If the item is not currently
// approved the whole operation fails and the claim stays pending; no partial
// state survives.
func (s *Service) approveClaim(ctx context.Context, id int64) (*model.Claim, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	var rawStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, status FROM claims WHERE id = ?`, id,
	).Scan(&itemID, &rawStatus)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading claim: %w", err)
	}

	status, err := model.ParseClaimStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("claim %d: %w", id, err)
	}
	if !CanTransitionClaim(status, model.ClaimStatusApproved) {
		return nil, fmt.Errorf("claim %d: %s -> %s: %w", id, status, model.ClaimStatusApproved, ErrInvalidTransition)
	}

	// Cascade the item first, guarded by its current status. Zero rows means
	// the item is gone or not approved; which of the two decides the message.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
		string(model.ItemStatusClaimed), itemID, string(model.ItemStatusApproved),
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}
	if rows == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ?`, itemID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking item: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("claim %d: item %d: %w", id, itemID, ErrItemDeleted)
		}
		return nil, fmt.Errorf("claim %d: item %d: %w", id, itemID, ErrItemUnavailable)
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ? AND status = ?`,
		string(model.ClaimStatusApproved), id, string(model.ClaimStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("approving claim: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("approving claim: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("claim %d: %w", id, ErrItemUnavailable)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim approval: %w", err)
	}

	metrics.RecordTransition("claim", string(model.ClaimStatusPending), string(model.ClaimStatusApproved))
	metrics.RecordTransition("item", string(model.ItemStatusApproved), string(model.ItemStatusClaimed))
	return store.GetClaim(ctx, s.db, id)
}
