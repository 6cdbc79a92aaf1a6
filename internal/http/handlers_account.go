package http

import (
	"errors"
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccounts(w, r, userID)
	case http.MethodPost:
		s.createAccount(w, r, userID)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) renderAccounts(w http.ResponseWriter, r *http.Request, userID int64) {
	accounts, err := s.store.ListAccounts(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Account listing failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "account.html", struct {
		Accounts []core.Account
		Flashes  []flashMessage
	}{
		Accounts: accounts,
		Flashes:  s.popFlashes(w, r),
	})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	form, err := parseAccountForm(r)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			s.addFlash(w, r, flashError, "Введите корректный баланс.")
		} else {
			s.addFlash(w, r, flashError, flashText(err))
		}
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}

	if _, err := s.store.CreateAccount(r.Context(), userID, form.Name, form.Balance); err != nil {
		slog.ErrorContext(r.Context(), "Account creation failed", "error", err, "user_id", userID)
		s.addFlash(w, r, flashError, "Ошибка при создании счета: "+err.Error())
	} else {
		s.addFlash(w, r, flashSuccess, "Счет успешно создан!")
	}
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}
