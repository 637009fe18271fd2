package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"radicais/internal/core"
	"radicais/internal/ledger"
)

type titheRowView struct {
	Leader   string
	Category string
	Amount   string
	RawValue string
	Paid     bool
}

type monthBarView struct {
	Month  string
	Amount string
	Width  int
}

type financeView struct {
	Month       string
	Rows        []titheRowView
	MonthTotal  string
	YearTotal   string
	PaidCount   int
	UnpaidCount int
	Bars        []monthBarView
}

// handleFinancePartial renders the tithe table for one month plus the
// year-to-date summary.
func (s *Server) handleFinancePartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	month := parseMonth(r)

	key := "dizimos:" + month
	if html, found := s.partials.Get(key); found {
		slog.DebugContext(r.Context(), "Finance partial cache hit", "month", month)
		_, _ = w.Write([]byte(html))
		return
	}

	html, err := s.renderFinance(month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Finance partial error", "error", err, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Erro carregando dízimos</div>`))
		return
	}

	s.partials.Set(key, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderFinance(month string) (string, error) {
	session := s.svc.Session()
	monthRows := session.TithesFor(month)
	allRows := session.AllTithes()

	view := financeView{
		Month:      month,
		MonthTotal: formatReais(core.TotalPaid(monthRows).Cents),
		YearTotal:  formatReais(core.TotalPaid(allRows).Cents),
	}

	breakdown := core.StatusBreakdown(allRows, month)
	view.PaidCount = breakdown[core.PaidYes]
	view.UnpaidCount = breakdown[core.PaidNo]

	for _, row := range monthRows {
		view.Rows = append(view.Rows, titheRowView{
			Leader:   row.Leader,
			Category: string(row.Category),
			Amount:   formatReais(row.Amount.Cents),
			RawValue: rawDecimal(row.Amount.Cents),
			Paid:     row.Paid == core.PaidYes,
		})
	}

	// Yearly bars scaled against the heaviest month
	byMonth := core.SumByMonth(allRows)
	var maxCents int64
	for _, m := range core.Months {
		if byMonth[m].Cents > maxCents {
			maxCents = byMonth[m].Cents
		}
	}
	for _, m := range core.Months {
		cents := byMonth[m].Cents
		width := 0
		if maxCents > 0 && cents > 0 {
			width = int((cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		view.Bars = append(view.Bars, monthBarView{
			Month:  m,
			Amount: formatReais(cents),
			Width:  width,
		})
	}

	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "finance.html", view); err != nil {
		return "", fmt.Errorf("render finance: %w", err)
	}
	return buf.String(), nil
}

// rawDecimal renders cents as a plain decimal for input values ("12.34").
func rawDecimal(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// handleSaveTithe applies one tithe edit and persists the full snapshot.
func (s *Server) handleSaveTithe(w http.ResponseWriter, r *http.Request) {
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
	leader := sanitizeInput(r.FormValue("lider"))
	if leader == "" {
		UnprocessableEntityError("Líder é obrigatório").Write(w)
		return
	}

	var cents int64
	if amountStr := strings.TrimSpace(r.FormValue("valor")); amountStr != "" {
		var err error
		cents, err = core.ParseDecimalToCents(amountStr)
		if err != nil {
			UnprocessableEntityError("Valor inválido").Write(w)
			return
		}
	}

	paid := core.PaidNo
	if v := strings.TrimSpace(r.FormValue("pago")); v != "" {
		paid = core.PaidFlag(v)
		if err := paid.Validate(); err != nil {
			UnprocessableEntityError("Situação de pagamento inválida").Write(w)
			return
		}
	}

	if err := s.svc.Session().ApplyTitheEdit(month, leader, core.Money{Cents: cents}, paid); err != nil {
		if errors.Is(err, ledger.ErrRowNotFound) {
			NotFoundError("Registro de dízimo não encontrado").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Tithe edit error", "error", err, "month", month, "leader", leader)
		UnprocessableEntityError("Dados de dízimo inválidos").Write(w)
		return
	}

	if err := s.svc.Save(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Tithe save error", "error", err, "month", month, "leader", leader)
		InternalServerError("Erro ao salvar. A edição permanece em memória, tente novamente.").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerTitheSaved(month, leader).
		TriggerSuccessNotification("Dízimo salvo").
		BodyHTML(`<div class="success">Dízimo de ` + templateEscape(leader) + ` em ` + templateEscape(month) + `: ` + templateEscape(formatReais(cents)) + `</div>`).
		Write(w)
}
