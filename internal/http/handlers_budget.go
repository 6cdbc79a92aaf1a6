package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		s.renderBudgets(w, r, userID)
	case http.MethodPost:
		s.createBudget(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget listing failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "budget.html", struct {
		Budgets []core.Budget
		Flashes []flashMessage
	}{
		Budgets: budgets,
		Flashes: s.popFlashes(w, r),
	})
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request, userID int64) {
	form, err := parseBudgetForm(r)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			s.addFlash(w, r, flashError, "Введите корректную сумму бюджета.")
		} else {
			s.addFlash(w, r, flashError, flashText(err))
		}
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	if _, err := s.store.CreateBudget(r.Context(), userID, form.Name, form.Amount, form.Month, form.Year); err != nil {
		slog.ErrorContext(r.Context(), "Budget creation failed", "error", err, "user_id", userID)
		s.addFlash(w, r, flashError, "Ошибка при создании бюджета: "+err.Error())
	} else {
		s.addFlash(w, r, flashSuccess, "Бюджет успешно создан!")
	}
	http.Redirect(w, r, "/budget", http.StatusSeeOther)
}
