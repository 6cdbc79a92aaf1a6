package storage

import (
	"context"
	"fmt"
	"time"

	"kopilka/internal/core"
)

// CreateAccount persists a new account for userID. The balance is whatever
// the user declared; it is never derived from income/expense history.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, userID int64, name string, balance core.Money) (*core.Account, error) {
	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (user_id, name, balance_cents, created_at) VALUES (?, ?, ?, ?)",
		userID, name, balance.Cents, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("account insert id: %w", err)
	}
	return &core.Account{ID: id, UserID: userID, Name: name, Balance: balance, CreatedAt: createdAt}, nil
}

// ListAccounts returns the user's accounts in insertion order.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, balance_cents, created_at FROM accounts WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var (
			a         core.Account
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			a.CreatedAt = t
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// CreateBudget persists a new budget declaration. Duplicates across
// (user, month, year, name) are allowed.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, userID int64, name string, amount core.Money, month, year int) (*core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO budgets (user_id, name, amount_cents, month, year) VALUES (?, ?, ?, ?, ?)",
		userID, name, amount.Cents, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("budget insert id: %w", err)
	}
	return &core.Budget{ID: id, UserID: userID, Name: name, Amount: amount, Month: month, Year: year}, nil
}

// ListBudgets returns the user's budgets in insertion order.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, name, amount_cents, month, year FROM budgets WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// CreateIncome persists a new income record. The category must exist and be
// income-typed; the check and the insert commit or roll back as a unit.
func (r *SQLiteRepository) CreateIncome(ctx context.Context, userID, categoryID int64, amount core.Money, date core.Date, note string) (*core.Income, error) {
	id, err := r.createEntry(ctx, "incomes", core.CategoryIncome, userID, categoryID, amount, date, note)
	if err != nil {
		return nil, err
	}
	return &core.Income{ID: id, UserID: userID, CategoryID: categoryID, Amount: amount, Date: date, Note: note}, nil
}

// CreateExpense persists a new expense record against an expense-typed
// category.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, userID, categoryID int64, amount core.Money, date core.Date, note string) (*core.Expense, error) {
	id, err := r.createEntry(ctx, "expenses", core.CategoryExpense, userID, categoryID, amount, date, note)
	if err != nil {
		return nil, err
	}
	return &core.Expense{ID: id, UserID: userID, CategoryID: categoryID, Amount: amount, Date: date, Note: note}, nil
}

func (r *SQLiteRepository) createEntry(ctx context.Context, table string, want core.CategoryType, userID, categoryID int64, amount core.Money, date core.Date, note string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	kind, err := categoryType(ctx, tx, categoryID)
	if err != nil {
		return 0, err
	}
	if kind != want {
		return 0, core.ErrWrongCategoryType
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id, category_id, amount_cents, date, note) VALUES (?, ?, ?, ?, ?)",
		userID, categoryID, amount.Cents, date.String(), note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s insert id: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s insert: %w", table, err)
	}
	return id, nil
}

// LedgerCounts tallies the user's records of every ledger kind in one
// round-trip for the dashboard.
func (r *SQLiteRepository) LedgerCounts(ctx context.Context, userID int64) (core.LedgerCounts, error) {
	var c core.LedgerCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM accounts WHERE user_id = ?),
			(SELECT COUNT(*) FROM budgets WHERE user_id = ?),
			(SELECT COUNT(*) FROM incomes WHERE user_id = ?),
			(SELECT COUNT(*) FROM expenses WHERE user_id = ?)`,
		userID, userID, userID, userID,
	).Scan(&c.Accounts, &c.Budgets, &c.Incomes, &c.Expenses)
	if err != nil {
		return core.LedgerCounts{}, fmt.Errorf("ledger counts: %w", err)
	}
	return c, nil
}

// ListIncomes returns the user's incomes joined with their category name,
// most recent date first.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.category_id, c.name, i.amount_cents, i.date, i.note
		FROM incomes i
		JOIN categories c ON c.id = i.category_id
		WHERE i.user_id = ?
		ORDER BY i.date DESC, i.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var (
			in   core.Income
			date string
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.CategoryID, &in.CategoryName, &in.Amount.Cents, &date, &in.Note); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if d, err := core.ParseDate(date); err == nil {
			in.Date = d
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return incomes, nil
}

// ListExpenses returns the user's expenses joined with their category name,
// most recent date first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.user_id, e.category_id, c.name, e.amount_cents, e.date, e.note
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?
		ORDER BY e.date DESC, e.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e    core.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.CategoryName, &e.Amount.Cents, &date, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if d, err := core.ParseDate(date); err == nil {
			e.Date = d
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
