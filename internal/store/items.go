package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateItem inserts a new item. The caller controls all fields except ID and
// CreatedAt, which the store assigns.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, location, date_found, image_url, finder_name, finder_email, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, item.Category, item.Location, item.DateFound,
		nullable(item.ImageURL), item.FinderName, item.FinderEmail, string(item.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, title, description, category, location, date_found, image_url,
		        finder_name, finder_email, status, created_at
		 FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items ordered by creation time descending, optionally
// filtered by status. Free-text and category filtering happen in memory over
// this result, not here.
func ListItems(ctx context.Context, db *sql.DB, status model.ItemStatus) ([]model.Item, error) {
	query := `SELECT id, title, description, category, location, date_found, image_url,
	                 finder_name, finder_email, status, created_at
	          FROM items`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItemStatus sets an item's status only if it currently has the
// expected status. Returns the number of rows changed: zero means the item is
// gone or no longer in the expected status.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id int64, from, to model.ItemStatus) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return 0, fmt.Errorf("updating item status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating item status: %w", err)
	}
	return rows, nil
}

// DeleteItem removes an item unconditionally. Claims referencing it are left
// untouched. Returns whether a row was deleted.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return rows > 0, nil
}

// CountItemsByStatus returns the number of items per status.
func CountItemsByStatus(ctx context.Context, db *sql.DB) (map[model.ItemStatus]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ItemStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning item count: %w", err)
		}
		counts[model.ItemStatus(status)] = count
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanItem reads one item row, validating the stored status at the boundary.
func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imageURL sql.NullString
	var status string
	err := row.Scan(&item.ID, &item.Title, &description, &item.Category, &item.Location,
		&item.DateFound, &imageURL, &item.FinderName, &item.FinderEmail, &status, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.ImageURL = imageURL.String

	item.Status, err = model.ParseItemStatus(status)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", item.ID, err)
	}
	return item, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
