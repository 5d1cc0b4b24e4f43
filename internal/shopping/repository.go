package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grocy-planner/internal/database"
)

// Repository handles persistence of generated shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores a generated list and sets its ID and CreatedAt.
func (r *Repository) Save(ctx context.Context, list *List) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (start_date, end_date, recipes_processed, homemade_products_resolved, items, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		list.StartDate, list.EndDate, list.RecipesProcessed, list.HomemadeProductsResolved,
		string(itemsJSON), database.FormatTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list id: %w", err)
	}
	list.ID = id
	list.CreatedAt = createdAt
	return id, nil
}

// GetLatestForRange returns the most recent list generated for the range,
// or nil when there is none.
func (r *Repository) GetLatestForRange(ctx context.Context, startDate, endDate string) (*List, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, recipes_processed, homemade_products_resolved, items, created_at
		FROM shopping_lists
		WHERE start_date = ? AND end_date = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, startDate, endDate)

	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list for range: %w", err)
	}
	return list, nil
}

// ListRecent returns up to limit lists, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]List, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, recipes_processed, homemade_products_resolved, items, created_at
		FROM shopping_lists
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping lists: %w", err)
	}
	return lists, nil
}

// DeleteOlderThan removes lists created before cutoff and returns how many were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE created_at < ?`, database.FormatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old shopping lists: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(s scanner) (*List, error) {
	var (
		list      List
		items     string
		createdAt string
	)
	if err := s.Scan(&list.ID, &list.StartDate, &list.EndDate, &list.RecipesProcessed,
		&list.HomemadeProductsResolved, &items, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	ts, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	list.CreatedAt = ts
	return &list, nil
}
