package http

import (
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		s.renderExpenses(w, r, userID)
	case http.MethodPost:
		s.createExpense(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderExpenses(w http.ResponseWriter, r *http.Request, userID int64) {
	categories, err := s.store.ListCategoriesByType(r.Context(), core.CategoryExpense)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense categories listing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	expenses, err := s.store.ListExpenses(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense listing failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "expenses.html", struct {
		Categories []core.Category
		Expenses   []core.Expense
		Flashes    []flashMessage
	}{
		Categories: categories,
		Expenses:   expenses,
		Flashes:    s.popFlashes(w, r),
	})
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	form, err := parseEntryForm(r)
	if err != nil {
		s.addFlash(w, r, flashError, flashText(err))
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}

	_, err = s.store.CreateExpense(r.Context(), userID, form.CategoryID, form.Amount, form.Date, form.Note)
	switch {
	case err == nil:
		s.addFlash(w, r, flashSuccess, "Расход успешно добавлен!")
	default:
		text := flashText(err)
		if text == "" {
			slog.ErrorContext(r.Context(), "Expense creation failed", "error", err, "user_id", userID)
			text = "Ошибка при добавлении расхода: " + err.Error()
		}
		s.addFlash(w, r, flashError, text)
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}
