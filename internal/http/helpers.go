package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"radicais/internal/core"
)

// templateEscape shortens the html/template escape helper for inline bodies.
func templateEscape(s string) string {
	return template.HTMLEscapeString(s)
}

type contextKey string

const requestIDKey contextKey = "request_id"

// parseMonth extracts the month name from query or form parameters. Falls
// back to the current calendar month when absent or unknown.
func parseMonth(r *http.Request) string {
	v := strings.TrimSpace(r.FormValue("mes"))
	if v == "" {
		v = strings.TrimSpace(r.URL.Query().Get("mes"))
	}
	if _, err := core.MonthIndex(v); err == nil {
		return v
	}
	return core.Months[int(time.Now().Month())-1]
}

// parseCategory extracts an optional category filter. Empty means all.
func parseCategory(r *http.Request) (core.Category, bool) {
	v := core.Category(strings.TrimSpace(r.FormValue("categoria")))
	if v == "" {
		return "", true
	}
	if err := v.Validate(); err != nil {
		return "", false
	}
	return v, true
}

// parseActivity extracts the activity type, defaulting to Célula.
func parseActivity(r *http.Request) (core.ActivityType, bool) {
	v := core.ActivityType(strings.TrimSpace(r.FormValue("tipo")))
	if v == "" {
		return core.ActivityCelula, true
	}
	if err := v.Validate(); err != nil {
		return "", false
	}
	return v, true
}

// formatReais formats cents as a Brazilian currency string (e.g. "R$ 12,34").
func formatReais(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	reais := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(reais, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseCounter reads a non-negative integer form field, treating blank as
// zero so an untouched input never blocks a save.
func parseCounter(r *http.Request, field string) (int, error) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("campo %s: %w", field, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("campo %s: %w", field, core.ErrNegativeCount)
	}
	return n, nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
