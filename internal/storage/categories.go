package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kopilka/internal/core"
)

// The fixed catalog inserted on first startup. Names are shared read-only
// across all users and never mutated afterwards.
var seedExpenseCategories = []string{
	"Продукты", "Транспорт", "Жилье", "Развлечения",
	"Здоровье", "Одежда", "Образование", "Другое",
}

var seedIncomeCategories = []string{
	"Зарплата", "Подарки", "Инвестиции",
}

// SeedCategories populates the category catalog when it is empty. Calling
// it again is a no-op, so startup can always run it unconditionally.
func (r *SQLiteRepository) SeedCategories(ctx context.Context) error {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range seedExpenseCategories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, type) VALUES (?, ?)", name, core.CategoryExpense,
		); err != nil {
			return fmt.Errorf("seed expense category %q: %w", name, err)
		}
	}
	for _, name := range seedIncomeCategories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, type) VALUES (?, ?)", name, core.CategoryIncome,
		); err != nil {
			return fmt.Errorf("seed income category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	slog.InfoContext(ctx, "Category catalog seeded",
		"expense", len(seedExpenseCategories),
		"income", len(seedIncomeCategories))
	return nil
}

// ListCategoriesByType returns the categories of the given type in
// insertion order.
func (r *SQLiteRepository) ListCategoriesByType(ctx context.Context, kind core.CategoryType) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, type FROM categories WHERE type = ? ORDER BY id", kind,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// CountCategories returns the total number of catalog rows.
func (r *SQLiteRepository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// categoryType resolves the type of a category inside tx, or
// core.ErrMissingCategory when the id does not exist.
func categoryType(ctx context.Context, tx *sql.Tx, id int64) (core.CategoryType, error) {
	var kind core.CategoryType
	err := tx.QueryRowContext(ctx, "SELECT type FROM categories WHERE id = ?", id).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrMissingCategory
	}
	if err != nil {
		return "", fmt.Errorf("get category type: %w", err)
	}
	return kind, nil
}
