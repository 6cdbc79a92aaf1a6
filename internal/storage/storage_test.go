package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kopilka/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "kopilka.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, username, email string) *core.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), username, email, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func incomeCategory(t *testing.T, repo *SQLiteRepository) core.Category {
	t.Helper()
	cats, err := repo.ListCategoriesByType(context.Background(), core.CategoryIncome)
	if err != nil || len(cats) == 0 {
		t.Fatalf("income categories: %v (%d)", err, len(cats))
	}
	return cats[0]
}

func expenseCategory(t *testing.T, repo *SQLiteRepository) core.Category {
	t.Helper()
	cats, err := repo.ListCategoriesByType(context.Background(), core.CategoryExpense)
	if err != nil || len(cats) == 0 {
		t.Fatalf("expense categories: %v (%d)", err, len(cats))
	}
	return cats[0]
}

func TestCreateUserDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := seedUser(t, repo, "alice", "alice@x.com")

	if _, err := repo.CreateUser(ctx, "bob", "alice@x.com", "hash"); !errors.Is(err, core.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := repo.CreateUser(ctx, "alice", "other@x.com", "hash"); !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// The first user is unaffected by the failed inserts.
	got, err := repo.GetUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil || got.ID != first.ID || got.Username != "alice" {
		t.Fatalf("first user corrupted: %+v", got)
	}
}

func TestGetUserMissing(t *testing.T) {
	repo := newTestRepo(t)

	user, err := repo.GetUserByEmail(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}

	user, err = repo.GetUserByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestSeedCategoriesIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	count, err := repo.CountCategories(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 11 {
		t.Fatalf("expected 11 categories after double seed, got %d", count)
	}

	expense, err := repo.ListCategoriesByType(ctx, core.CategoryExpense)
	if err != nil {
		t.Fatalf("list expense: %v", err)
	}
	if len(expense) != 8 {
		t.Fatalf("expected 8 expense categories, got %d", len(expense))
	}
	if expense[0].Name != "Продукты" {
		t.Fatalf("expected insertion order, first expense category %q", expense[0].Name)
	}

	income, err := repo.ListCategoriesByType(ctx, core.CategoryIncome)
	if err != nil {
		t.Fatalf("list income: %v", err)
	}
	if len(income) != 3 {
		t.Fatalf("expected 3 income categories, got %d", len(income))
	}
}

func TestCreateAndListAccounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "alice", "alice@x.com")

	created, err := repo.CreateAccount(ctx, user.ID, "Cash", core.Money{Cents: 10000})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if created.ID == 0 || created.UserID != user.ID {
		t.Fatalf("unexpected account: %+v", created)
	}

	accounts, err := repo.ListAccounts(ctx, user.ID)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].Name != "Cash" || accounts[0].Balance.Cents != 10000 {
		t.Fatalf("unexpected account row: %+v", accounts[0])
	}
	if accounts[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not round-tripped")
	}
}

func TestCreateAndListBudgets(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "alice", "alice@x.com")

	// Duplicate declarations across (user, month, year, name) are allowed.
	for i := 0; i < 2; i++ {
		if _, err := repo.CreateBudget(ctx, user.ID, "Еда", core.Money{Cents: 50000}, 3, 2024); err != nil {
			t.Fatalf("create budget %d: %v", i, err)
		}
	}

	budgets, err := repo.ListBudgets(ctx, user.ID)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(budgets))
	}
	if budgets[0].Month != 3 || budgets[0].Year != 2024 || budgets[0].Amount.Cents != 50000 {
		t.Fatalf("unexpected budget row: %+v", budgets[0])
	}
}

func TestIncomesOrderedByDateDescending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	user := seedUser(t, repo, "alice", "alice@x.com")
	cat := incomeCategory(t, repo)

	dates := []string{"2024-01-10", "2024-03-05", "2024-02-20"}
	for _, ds := range dates {
		d, err := core.ParseDate(ds)
		if err != nil {
			t.Fatalf("parse %s: %v", ds, err)
		}
		if _, err := repo.CreateIncome(ctx, user.ID, cat.ID, core.Money{Cents: 100}, d, ""); err != nil {
			t.Fatalf("create income %s: %v", ds, err)
		}
	}

	incomes, err := repo.ListIncomes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list incomes: %v", err)
	}
	if len(incomes) != 3 {
		t.Fatalf("expected 3 incomes, got %d", len(incomes))
	}
	want := []string{"2024-03-05", "2024-02-20", "2024-01-10"}
	for i, w := range want {
		if incomes[i].Date.String() != w {
			t.Fatalf("position %d: date %s, want %s", i, incomes[i].Date, w)
		}
	}
	if incomes[0].CategoryName != cat.Name {
		t.Fatalf("category name not joined: %q", incomes[0].CategoryName)
	}
}

func TestCreateEntryCategoryChecks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	user := seedUser(t, repo, "alice", "alice@x.com")
	d := core.NewDate(2024, 1, 15)

	// Nonexistent category.
	if _, err := repo.CreateExpense(ctx, user.ID, 9999, core.Money{Cents: 100}, d, ""); !errors.Is(err, core.ErrMissingCategory) {
		t.Fatalf("expected ErrMissingCategory, got %v", err)
	}

	// Income-typed category on an expense record.
	in := incomeCategory(t, repo)
	if _, err := repo.CreateExpense(ctx, user.ID, in.ID, core.Money{Cents: 100}, d, ""); !errors.Is(err, core.ErrWrongCategoryType) {
		t.Fatalf("expected ErrWrongCategoryType, got %v", err)
	}

	// Expense-typed category on an income record.
	ex := expenseCategory(t, repo)
	if _, err := repo.CreateIncome(ctx, user.ID, ex.ID, core.Money{Cents: 100}, d, ""); !errors.Is(err, core.ErrWrongCategoryType) {
		t.Fatalf("expected ErrWrongCategoryType, got %v", err)
	}

	// Nothing was persisted by the failed attempts.
	expenses, err := repo.ListExpenses(ctx, user.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected no expenses, got %d", len(expenses))
	}
}

func TestPerUserIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	alice := seedUser(t, repo, "alice", "alice@x.com")
	bob := seedUser(t, repo, "bob", "bob@x.com")
	in := incomeCategory(t, repo)
	ex := expenseCategory(t, repo)
	d := core.NewDate(2024, 1, 15)

	if _, err := repo.CreateAccount(ctx, bob.ID, "Bob cash", core.Money{}); err != nil {
		t.Fatalf("bob account: %v", err)
	}
	if _, err := repo.CreateBudget(ctx, bob.ID, "Bob budget", core.Money{Cents: 100}, 1, 2024); err != nil {
		t.Fatalf("bob budget: %v", err)
	}
	if _, err := repo.CreateIncome(ctx, bob.ID, in.ID, core.Money{Cents: 100}, d, ""); err != nil {
		t.Fatalf("bob income: %v", err)
	}
	if _, err := repo.CreateExpense(ctx, bob.ID, ex.ID, core.Money{Cents: 100}, d, ""); err != nil {
		t.Fatalf("bob expense: %v", err)
	}

	if accounts, _ := repo.ListAccounts(ctx, alice.ID); len(accounts) != 0 {
		t.Fatalf("alice sees bob's accounts")
	}
	if budgets, _ := repo.ListBudgets(ctx, alice.ID); len(budgets) != 0 {
		t.Fatalf("alice sees bob's budgets")
	}
	if incomes, _ := repo.ListIncomes(ctx, alice.ID); len(incomes) != 0 {
		t.Fatalf("alice sees bob's incomes")
	}
	if expenses, _ := repo.ListExpenses(ctx, alice.ID); len(expenses) != 0 {
		t.Fatalf("alice sees bob's expenses")
	}
}

func TestLedgerCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.SeedCategories(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	alice := seedUser(t, repo, "alice", "alice@x.com")
	bob := seedUser(t, repo, "bob", "bob@x.com")
	in := incomeCategory(t, repo)
	ex := expenseCategory(t, repo)
	d := core.NewDate(2024, 1, 15)

	if _, err := repo.CreateAccount(ctx, alice.ID, "Cash", core.Money{}); err != nil {
		t.Fatalf("account: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.CreateIncome(ctx, alice.ID, in.ID, core.Money{Cents: 100}, d, ""); err != nil {
			t.Fatalf("income: %v", err)
		}
	}
	if _, err := repo.CreateExpense(ctx, alice.ID, ex.ID, core.Money{Cents: 100}, d, ""); err != nil {
		t.Fatalf("expense: %v", err)
	}
	if _, err := repo.CreateExpense(ctx, bob.ID, ex.ID, core.Money{Cents: 100}, d, ""); err != nil {
		t.Fatalf("bob expense: %v", err)
	}

	counts, err := repo.LedgerCounts(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ledger counts: %v", err)
	}
	want := core.LedgerCounts{Accounts: 1, Budgets: 0, Incomes: 2, Expenses: 1}
	if counts != want {
		t.Fatalf("LedgerCounts() = %+v, want %+v", counts, want)
	}
}
