package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Defaults(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().BodyHTML("<div>ok</div>").Write(rec)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); body != "<div>ok</div>" {
		t.Errorf("body = %q", body)
	}
	if rec.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger should be absent without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTitheSaved("Janeiro", "Pedro").
		TriggerSuccessNotification("salvo").
		Write(rec)

	raw := rec.Header().Get("HX-Trigger")
	if raw == "" {
		t.Fatal("HX-Trigger header missing")
	}

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if _, ok := triggers["tithe:saved"]; !ok {
		t.Errorf("missing tithe:saved trigger in %s", raw)
	}
	if _, ok := triggers["show-notification"]; !ok {
		t.Errorf("missing show-notification trigger in %s", raw)
	}
}

func TestErrorResponseEscapesHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, `<script>alert("x")</script>`).Write(rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Errorf("body not escaped: %s", rec.Body.String())
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowedError("POST").Write(rec)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestUnauthorizedError(t *testing.T) {
	rec := httptest.NewRecorder()
	UnauthorizedError("Senha incorreta").Write(rec)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
