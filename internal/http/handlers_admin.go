package http

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"radicais/internal/core"
	"radicais/internal/ledger"
)

// checkAdminPassword validates the form password against the configured one.
func (s *Server) checkAdminPassword(r *http.Request) bool {
	given := strings.TrimSpace(r.FormValue("senha"))
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.adminPassword)) == 1
}

// handleAddLeader registers a new leader and persists the expanded ledgers.
func (s *Server) handleAddLeader(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	if !s.checkAdminPassword(r) {
		slog.WarnContext(r.Context(), "Admin password rejected", "url", r.URL.Path)
		UnauthorizedError("Senha incorreta").Write(w)
		return
	}

	name := sanitizeInput(r.FormValue("nome"))
	category := core.Category(strings.TrimSpace(r.FormValue("categoria")))
	if err := category.Validate(); err != nil {
		UnprocessableEntityError("Categoria inválida").Write(w)
		return
	}

	if err := s.svc.Session().AddLeader(name, category); err != nil {
		switch {
		case errors.Is(err, ledger.ErrLeaderExists):
			UnprocessableEntityError("Líder já cadastrado: " + name).Write(w)
		case errors.Is(err, core.ErrEmptyLeader):
			UnprocessableEntityError("Nome é obrigatório").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Add leader error", "error", err, "leader", name)
			InternalServerError("Erro ao cadastrar líder").Write(w)
		}
		return
	}

	if err := s.svc.Save(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Save after add leader failed", "error", err, "leader", name)
		InternalServerError("Líder cadastrado em memória, mas o salvamento falhou").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Leader added", "leader", name, "category", string(category))

	NewHTMXResponse().
		TriggerRosterChanged().
		TriggerSuccessNotification("Líder cadastrado").
		BodyHTML(`<div class="success">Líder ` + templateEscape(name) + ` cadastrado em ` + templateEscape(string(category)) + `</div>`).
		Write(w)
}

// handleRemoveLeader removes a leader and every ledger row of theirs.
func (s *Server) handleRemoveLeader(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	if !s.checkAdminPassword(r) {
		slog.WarnContext(r.Context(), "Admin password rejected", "url", r.URL.Path)
		UnauthorizedError("Senha incorreta").Write(w)
		return
	}

	name := sanitizeInput(r.FormValue("nome"))
	if err := s.svc.Session().RemoveLeader(name); err != nil {
		if errors.Is(err, ledger.ErrUnknownLeader) {
			NotFoundError("Líder não encontrado: " + name).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Remove leader error", "error", err, "leader", name)
		InternalServerError("Erro ao remover líder").Write(w)
		return
	}

	if err := s.svc.Save(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Save after remove leader failed", "error", err, "leader", name)
		InternalServerError("Líder removido em memória, mas o salvamento falhou").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Leader removed", "leader", name)

	NewHTMXResponse().
		TriggerRosterChanged().
		TriggerSuccessNotification("Líder removido").
		BodyHTML(`<div class="success">Líder ` + templateEscape(name) + ` removido</div>`).
		Write(w)
}
