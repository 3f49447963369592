package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateClaim inserts a new claim.
func CreateClaim(ctx context.Context, db *sql.DB, claim *model.Claim) (*model.Claim, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO claims (item_id, claimant_name, claimant_email, claimant_phone, description, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		claim.ItemID, claim.ClaimantName, claim.ClaimantEmail,
		nullable(claim.ClaimantPhone), claim.Description, string(claim.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID, or nil if it does not exist.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT c.id, c.item_id, c.claimant_name, c.claimant_email, c.claimant_phone,
		        c.description, c.status, c.created_at, i.title
		 FROM claims c
		 LEFT JOIN items i ON i.id = c.item_id
		 WHERE c.id = ?`, id,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ListClaims returns claims ordered by creation time descending, optionally
// filtered by status. Each claim carries the referenced item's title, or the
// unknown-item sentinel when the item has been deleted.
func ListClaims(ctx context.Context, db *sql.DB, status model.ClaimStatus) ([]model.Claim, error) {
	query := `SELECT c.id, c.item_id, c.claimant_name, c.claimant_email, c.claimant_phone,
	                 c.description, c.status, c.created_at, i.title
	          FROM claims c
	          LEFT JOIN items i ON i.id = c.item_id`
	args := []any{}
	if status != "" {
		query += ` WHERE c.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY c.created_at DESC, c.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

// UpdateClaimStatus sets a claim's status only if it currently has the
// expected status. Returns the number of rows changed.
func UpdateClaimStatus(ctx context.Context, db *sql.DB, id int64, from, to model.ClaimStatus) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return 0, fmt.Errorf("updating claim status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating claim status: %w", err)
	}
	return rows, nil
}

// CountClaimsByStatus returns the number of claims per status.
func CountClaimsByStatus(ctx context.Context, db *sql.DB) (map[model.ClaimStatus]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM claims GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting claims: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ClaimStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning claim count: %w", err)
		}
		counts[model.ClaimStatus(status)] = count
	}
	return counts, rows.Err()
}

// scanClaim reads one claim row with its joined item title.
func scanClaim(row scanner) (*model.Claim, error) {
	claim := &model.Claim{}
	var phone, itemTitle sql.NullString
	var status string
	err := row.Scan(&claim.ID, &claim.ItemID, &claim.ClaimantName, &claim.ClaimantEmail,
		&phone, &claim.Description, &status, &claim.CreatedAt, &itemTitle)
	if err != nil {
		return nil, err
	}
	claim.ClaimantPhone = phone.String

	claim.Status, err = model.ParseClaimStatus(status)
	if err != nil {
		return nil, fmt.Errorf("claim %d: %w", claim.ID, err)
	}

	if itemTitle.Valid {
		claim.ItemTitle = itemTitle.String
	} else {
		claim.ItemTitle = model.UnknownItemTitle
	}
	return claim, nil
}
