package http

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"kopilka/internal/auth"
	"kopilka/internal/core"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Typed per-operation input structs, validated at the boundary before any
// domain record is constructed.
type (
	registerForm struct {
		Username string
		Email    string
		Password string
	}

	accountForm struct {
		Name    string
		Balance core.Money
	}

	budgetForm struct {
		Name   string
		Amount core.Money
		Month  int
		Year   int
	}

	// entryForm covers both income and expense creation; the two forms are
	// structurally identical.
	entryForm struct {
		CategoryID int64
		Amount     core.Money
		Date       core.Date
		Note       string
	}
)

// parseRegisterForm validates the registration fields and returns a
// user-facing message on failure.
func parseRegisterForm(r *http.Request) (registerForm, string) {
	f := registerForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if f.Username == "" {
		return f, "Укажите имя пользователя."
	}
	if !emailRe.MatchString(f.Email) {
		return f, "Введите корректный email."
	}
	if f.Password == "" {
		return f, "Укажите пароль."
	}
	if f.Password != r.PostFormValue("confirm_password") {
		return f, "Пароли не совпадают."
	}
	return f, ""
}

func parseAccountForm(r *http.Request) (accountForm, error) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		return accountForm{}, core.ErrEmptyName
	}
	balanceStr := strings.TrimSpace(r.PostFormValue("balance"))
	if balanceStr == "" {
		balanceStr = "0"
	}
	balance, err := core.ParseAmount(balanceStr)
	if err != nil {
		return accountForm{}, err
	}
	return accountForm{Name: name, Balance: balance}, nil
}

func parseBudgetForm(r *http.Request) (budgetForm, error) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		return budgetForm{}, core.ErrEmptyName
	}
	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		return budgetForm{}, err
	}
	month, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("month")))
	if err != nil || month < 1 || month > 12 {
		return budgetForm{}, core.ErrInvalidMonth
	}
	year, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("year")))
	if err != nil || year < 1 {
		return budgetForm{}, core.ErrInvalidYear
	}
	return budgetForm{Name: name, Amount: amount, Month: month, Year: year}, nil
}

func parseEntryForm(r *http.Request) (entryForm, error) {
	catStr := strings.TrimSpace(r.PostFormValue("category_id"))
	if catStr == "" {
		return entryForm{}, core.ErrMissingCategory
	}
	categoryID, err := strconv.ParseInt(catStr, 10, 64)
	if err != nil {
		return entryForm{}, core.ErrMissingCategory
	}
	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		return entryForm{}, err
	}
	date, err := core.ParseDate(r.PostFormValue("date"))
	if err != nil {
		return entryForm{}, err
	}
	return entryForm{
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
		Note:       strings.TrimSpace(r.PostFormValue("note")),
	}, nil
}

// flashText maps a domain error to its user-facing notification text.
// Unknown errors return "" and the caller falls back to a contextual
// message carrying the error text.
func flashText(err error) string {
	switch {
	case errors.Is(err, core.ErrMissingCategory):
		return "Выберите категорию."
	case errors.Is(err, core.ErrWrongCategoryType):
		return "Категория не подходит для этой операции."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Введите корректную сумму."
	case errors.Is(err, core.ErrInvalidDate):
		return "Неверный формат даты. Используйте ГГГГ-ММ-ДД."
	case errors.Is(err, core.ErrEmptyName):
		return "Укажите название."
	case errors.Is(err, core.ErrInvalidMonth):
		return "Введите корректный месяц."
	case errors.Is(err, core.ErrInvalidYear):
		return "Введите корректный год."
	case errors.Is(err, core.ErrDuplicateEmail):
		return "Пользователь с таким email уже существует"
	case errors.Is(err, core.ErrDuplicateUsername):
		return "Пользователь с таким именем уже существует"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Неверный email или пароль"
	}
	return ""
}
