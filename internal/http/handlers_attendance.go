package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"radicais/internal/core"
	"radicais/internal/ledger"
)

type attendanceCellView struct {
	Week     int
	Members  int
	Active   int
	Visitors int
}

type attendanceRowView struct {
	Leader   string
	Category string
	Cells    []attendanceCellView
	Total    core.WeekSlot
}

type attendanceView struct {
	Month     string
	Activity  string
	Category  string
	Saturdays []string
	Rows      []attendanceRowView
	Totals    []core.WeekSlot
	Grand     core.WeekSlot
}

// handleAttendancePartial renders the attendance table for one month,
// activity type, and optional category filter.
func (s *Server) handleAttendancePartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	month := parseMonth(r)
	category, ok := parseCategory(r)
	if !ok {
		BadRequestError("Categoria inválida").Write(w)
		return
	}
	activity, ok := parseActivity(r)
	if !ok {
		BadRequestError("Tipo de atividade inválido").Write(w)
		return
	}

	key := "frequencia:" + month + ":" + string(category) + ":" + string(activity)
	if html, found := s.partials.Get(key); found {
		slog.DebugContext(r.Context(), "Attendance partial cache hit", "month", month)
		_, _ = w.Write([]byte(html))
		return
	}

	html, err := s.renderAttendance(month, category, activity)
	if err != nil {
		slog.ErrorContext(r.Context(), "Attendance partial error", "error", err, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Erro carregando frequência</div>`))
		return
	}

	s.partials.Set(key, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderAttendance(month string, category core.Category, activity core.ActivityType) (string, error) {
	saturdays, err := core.SaturdaysInMonth(s.year, month)
	if err != nil {
		return "", fmt.Errorf("saturdays for %s: %w", month, err)
	}
	weekCount := len(saturdays)

	all := s.svc.Session().AttendanceFor(month, category)
	view := attendanceView{
		Month:     month,
		Activity:  string(activity),
		Category:  string(category),
		Saturdays: saturdays,
		Totals:    make([]core.WeekSlot, weekCount),
	}

	for _, row := range all {
		if row.Type != activity {
			continue
		}
		rv := attendanceRowView{
			Leader:   row.Leader,
			Category: string(row.Category),
		}
		for i := 0; i < weekCount; i++ {
			slot := row.Weeks[i]
			rv.Cells = append(rv.Cells, attendanceCellView{
				Week:     i + 1,
				Members:  slot.Members,
				Active:   slot.Active,
				Visitors: slot.Visitors,
			})
			rv.Total.Members += slot.Members
			rv.Total.Active += slot.Active
			rv.Total.Visitors += slot.Visitors

			view.Totals[i].Members += slot.Members
			view.Totals[i].Active += slot.Active
			view.Totals[i].Visitors += slot.Visitors
		}
		view.Grand.Members += rv.Total.Members
		view.Grand.Active += rv.Total.Active
		view.Grand.Visitors += rv.Total.Visitors
		view.Rows = append(view.Rows, rv)
	}

	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "attendance.html", view); err != nil {
		return "", fmt.Errorf("render attendance: %w", err)
	}
	return buf.String(), nil
}

// handleSaveAttendance applies one row edit and persists the full snapshot.
// Week fields absent from the form keep their stored values, so months with
// four Saturdays never zero the hidden fifth slot.
func (s *Server) handleSaveAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	month := parseMonth(r)
	leader := sanitizeInput(r.FormValue("discipulador"))
	if leader == "" {
		UnprocessableEntityError("Discipulador é obrigatório").Write(w)
		return
	}
	activity, ok := parseActivity(r)
	if !ok {
		UnprocessableEntityError("Tipo de atividade inválido").Write(w)
		return
	}

	existing, err := s.svc.Session().LocateAttendance(month, leader, activity)
	if err != nil {
		if errors.Is(err, ledger.ErrRowNotFound) {
			NotFoundError("Registro de frequência não encontrado").Write(w)
			return
		}
		InternalServerError("Erro localizando registro").Write(w)
		return
	}

	weeks := existing.Weeks
	for i := 0; i < core.WeekSlots; i++ {
		for _, part := range []struct {
			suffix string
			dest   *int
		}{
			{"me", &weeks[i].Members},
			{"fa", &weeks[i].Active},
			{"vi", &weeks[i].Visitors},
		} {
			field := fmt.Sprintf("s%d_%s", i+1, part.suffix)
			if _, present := r.Form[field]; !present {
				continue
			}
			n, err := parseCounter(r, field)
			if err != nil {
				UnprocessableEntityError("Contagem inválida: " + field).Write(w)
				return
			}
			*part.dest = n
		}
	}

	if err := s.svc.Session().ApplyAttendanceEdit(month, leader, activity, weeks); err != nil {
		slog.ErrorContext(r.Context(), "Attendance edit error", "error", err,
			"month", month, "leader", leader, "activity", string(activity))
		UnprocessableEntityError("Dados de frequência inválidos").Write(w)
		return
	}

	if err := s.svc.Save(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Attendance save error", "error", err, "month", month, "leader", leader)
		InternalServerError("Erro ao salvar. A edição permanece em memória, tente novamente.").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerAttendanceSaved(month, leader, string(activity)).
		TriggerSuccessNotification("Frequência salva").
		BodyHTML(`<div class="success">Frequência de ` + templateEscape(leader) + ` em ` + templateEscape(month) + ` salva</div>`).
		Write(w)
}
