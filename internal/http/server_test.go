package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"radicais/internal/cache"
	"radicais/internal/core"
	"radicais/internal/ledger"
	"radicais/internal/services"
	"radicais/internal/sheets/memory"
)

func firstLeader() string {
	return core.DefaultRoster()[0].Leaders[0]
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	session, err := ledger.NewSession(memory.New(), core.DefaultRoster(), false)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.Load(context.Background())

	caches := cache.NewManager()
	svc := services.NewLedgerService(session, nil, caches)

	srv := NewServer(Options{Addr: ":0", Year: 2026, AdminPassword: "1234"}, svc, caches)
	t.Cleanup(srv.rateLimiter.stop)
	return srv
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, r)
	return rec
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Radicais Livres", "Janeiro", "Dezembro", "Jovens", "Adolescentes"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestIndexRejectsUnknownPaths(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAttendancePartial(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/attendance?mes=Janeiro&tipo=Célula", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("attendance partial = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "André e Larissa") {
		t.Errorf("partial missing default leader: %s", body)
	}
	if !strings.Contains(body, "s1_me") {
		t.Error("partial missing week one input")
	}
}

func TestFinancePartial(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/finance?mes=Janeiro", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("finance partial = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dízimos") {
		t.Error("partial missing finance heading")
	}
}

func TestSaveTithe(t *testing.T) {
	srv := newTestServer(t)
	leader := firstLeader()

	rec := postForm(srv, "/tithes/save", url.Values{
		"mes":   {"Janeiro"},
		"lider": {leader},
		"valor": {"150.00"},
		"pago":  {"Sim"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("save tithe = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "tithe:saved") {
		t.Error("missing tithe:saved trigger")
	}

	row, err := srv.svc.Session().LocateTithe("Janeiro", leader)
	if err != nil {
		t.Fatalf("LocateTithe: %v", err)
	}
	if row.Amount.Cents != 15000 || row.Paid != core.PaidYes {
		t.Errorf("tithe row = %+v", row)
	}
}

func TestSaveTitheUnknownLeader(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/tithes/save", url.Values{
		"mes":   {"Janeiro"},
		"lider": {"Ninguém"},
		"valor": {"10.00"},
		"pago":  {"Sim"},
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown leader save = %d, want 404", rec.Code)
	}
}

func TestSaveAttendancePreservesUnsentWeeks(t *testing.T) {
	srv := newTestServer(t)
	leader := firstLeader()

	// Seed week 5 directly, then post a form that omits it.
	var weeks [core.WeekSlots]core.WeekSlot
	weeks[4] = core.WeekSlot{Members: 9, Active: 8, Visitors: 1}
	if err := srv.svc.Session().ApplyAttendanceEdit("Janeiro", leader, core.ActivityCelula, weeks); err != nil {
		t.Fatalf("seed edit: %v", err)
	}

	rec := postForm(srv, "/attendance/save", url.Values{
		"mes":          {"Janeiro"},
		"discipulador": {leader},
		"tipo":         {string(core.ActivityCelula)},
		"s1_me":        {"12"},
		"s1_fa":        {"10"},
		"s1_vi":        {"2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save attendance = %d, body %s", rec.Code, rec.Body.String())
	}

	row, err := srv.svc.Session().LocateAttendance("Janeiro", leader, core.ActivityCelula)
	if err != nil {
		t.Fatalf("LocateAttendance: %v", err)
	}
	if row.Weeks[0].Members != 12 || row.Weeks[0].Active != 10 || row.Weeks[0].Visitors != 2 {
		t.Errorf("week one = %+v", row.Weeks[0])
	}
	if row.Weeks[4].Members != 9 {
		t.Errorf("week five clobbered: %+v", row.Weeks[4])
	}
}

func TestSaveAttendanceRejectsGet(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/save", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET save = %d, want 405", rec.Code)
	}
}

func TestAddLeaderRequiresPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/admin/leaders", url.Values{
		"nome":      {"Novos Líderes"},
		"categoria": {string(core.CategoryJovens)},
		"senha":     {"errada"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d, want 401", rec.Code)
	}

	rec = postForm(srv, "/admin/leaders", url.Values{
		"nome":      {"Novos Líderes"},
		"categoria": {string(core.CategoryJovens)},
		"senha":     {"1234"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add leader = %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := srv.svc.Session().LocateTithe("Janeiro", "Novos Líderes"); err != nil {
		t.Errorf("new leader missing from tithe ledger: %v", err)
	}
}

func TestRemoveLeader(t *testing.T) {
	srv := newTestServer(t)
	leader := firstLeader()

	rec := postForm(srv, "/admin/leaders/delete", url.Values{
		"nome":  {leader},
		"senha": {"1234"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove leader = %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := srv.svc.Session().LocateTithe("Janeiro", leader); err == nil {
		t.Error("removed leader still present in tithe ledger")
	}
}

func TestReloadDiscardsEdits(t *testing.T) {
	srv := newTestServer(t)
	leader := firstLeader()

	err := srv.svc.Session().ApplyTitheEdit("Janeiro", leader, core.Money{Cents: 500}, core.PaidYes)
	if err != nil {
		t.Fatalf("ApplyTitheEdit: %v", err)
	}

	rec := postForm(srv, "/reload", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("reload = %d", rec.Code)
	}

	row, err := srv.svc.Session().LocateTithe("Janeiro", leader)
	if err != nil {
		t.Fatalf("LocateTithe: %v", err)
	}
	if row.Amount.Cents != 0 {
		t.Errorf("edit survived reload: %+v", row)
	}
}

func TestPartialCacheInvalidatedBySave(t *testing.T) {
	srv := newTestServer(t)
	leader := firstLeader()

	first := httptest.NewRecorder()
	srv.Handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ui/finance?mes=Janeiro", nil))

	rec := postForm(srv, "/tithes/save", url.Values{
		"mes":   {"Janeiro"},
		"lider": {leader},
		"valor": {"99.00"},
		"pago":  {"Sim"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save = %d", rec.Code)
	}

	second := httptest.NewRecorder()
	srv.Handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ui/finance?mes=Janeiro", nil))

	if !strings.Contains(second.Body.String(), "99,00") {
		t.Error("finance partial served stale cache after save")
	}
}
