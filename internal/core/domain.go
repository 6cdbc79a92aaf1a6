package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type (
	// CategoryType tags a category as applicable to incomes or expenses.
	CategoryType string

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
	}

	// Account holds a user-declared balance. The balance is set at creation
	// and never reconciled against income/expense history.
	Account struct {
		ID        int64
		UserID    int64
		Name      string
		Balance   Money
		CreatedAt time.Time
	}

	Budget struct {
		ID     int64
		UserID int64
		Name   string
		Amount Money
		Month  int
		Year   int
	}

	// Category is a shared, read-only label seeded once at first startup.
	Category struct {
		ID   int64
		Name string
		Type CategoryType
	}

	Income struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string
		Amount       Money
		Date         Date
		Note         string
	}

	Expense struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string
		Amount       Money
		Date         Date
		Note         string
	}

	// LedgerCounts summarizes how many records of each kind a user owns,
	// shown on the dashboard.
	LedgerCounts struct {
		Accounts int64
		Budgets  int64
		Incomes  int64
		Expenses int64
	}

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidYear       = errors.New("invalid year")
	ErrEmptyName         = errors.New("empty name")
	ErrMissingCategory   = errors.New("missing category")
	ErrWrongCategoryType = errors.New("category type does not match record kind")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

var monthNames = [...]string{
	"", "Январь", "Февраль", "Март", "Апрель",
	"Май", "Июнь", "Июль", "Август",
	"Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// MonthName returns the Russian month name for 1..12, "" outside the range.
// Exposed to templates as a formatting helper.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}
