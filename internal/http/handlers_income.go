package http

import (
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		s.renderIncomes(w, r, userID)
	case http.MethodPost:
		s.createIncome(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderIncomes(w http.ResponseWriter, r *http.Request, userID int64) {
	categories, err := s.store.ListCategoriesByType(r.Context(), core.CategoryIncome)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income categories listing failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	incomes, err := s.store.ListIncomes(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Income listing failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "income.html", struct {
		Categories []core.Category
		Incomes    []core.Income
		Flashes    []flashMessage
	}{
		Categories: categories,
		Incomes:    incomes,
		Flashes:    s.popFlashes(w, r),
	})
}

// createIncome validates the form, writes the record with the acting user's
// id, flashes the outcome, and redirects back to /income regardless.
func (s *Server) createIncome(w http.ResponseWriter, r *http.Request, userID int64) {
	form, err := parseEntryForm(r)
	if err != nil {
		s.addFlash(w, r, flashError, flashText(err))
		http.Redirect(w, r, "/income", http.StatusSeeOther)
		return
	}

	_, err = s.store.CreateIncome(r.Context(), userID, form.CategoryID, form.Amount, form.Date, form.Note)
	switch {
	case err == nil:
		s.addFlash(w, r, flashSuccess, "Доход успешно добавлен!")
	default:
		text := flashText(err)
		if text == "" {
			slog.ErrorContext(r.Context(), "Income creation failed", "error", err, "user_id", userID)
			text = "Ошибка при добавлении дохода: " + err.Error()
		}
		s.addFlash(w, r, flashError, text)
	}
	http.Redirect(w, r, "/income", http.StatusSeeOther)
}
