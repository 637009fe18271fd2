package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"radicais/internal/cache"
	"radicais/internal/core"
	applog "radicais/internal/log"
	"radicais/internal/services"
	appweb "radicais/web"
)

// Options carries the server settings that come from application config.
type Options struct {
	Addr          string
	Year          int
	AdminPassword string
}

// Server is the dashboard HTTP server. Pages are rendered server-side from
// embedded templates; partials refresh over htmx and get cached per month
// and filter until the next save.
type Server struct {
	http.Server
	templates *template.Template
	svc       *services.LedgerService
	caches    *cache.Manager

	year          int
	adminPassword string

	rateLimiter *rateLimiter
	partials    *cache.LRUCache[string]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// The cache manager is shared with the ledger service so saves invalidate
// rendered partials.
func NewServer(opts Options, svc *services.LedgerService, caches *cache.Manager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		svc:           svc,
		caches:        caches,
		year:          opts.Year,
		adminPassword: opts.AdminPassword,
		rateLimiter:   newRateLimiter(),
		partials:      cache.NewLRUCache[string](200, 5*time.Minute),
	}
	if caches != nil {
		caches.Register(s.partials)
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// UI partials
	mux.HandleFunc("/ui/attendance", s.withSecurityHeaders(s.handleAttendancePartial))
	mux.HandleFunc("/ui/finance", s.withSecurityHeaders(s.handleFinancePartial))

	// Edits
	mux.HandleFunc("/attendance/save", s.withSecurityHeaders(s.handleSaveAttendance))
	mux.HandleFunc("/tithes/save", s.withSecurityHeaders(s.handleSaveTithe))

	// Admin
	mux.HandleFunc("/admin/leaders", s.withSecurityHeaders(s.handleAddLeader))
	mux.HandleFunc("/admin/leaders/delete", s.withSecurityHeaders(s.handleRemoveLeader))
	mux.HandleFunc("/reload", s.withSecurityHeaders(s.handleReload))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		// Rate limit writes only; partial refreshes stay cheap.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	currentMonth := core.Months[int(time.Now().Month())-1]
	data := struct {
		Year         int
		Months       []string
		CurrentMonth string
		Categories   []core.Category
		Activities   []core.ActivityType
	}{
		Year:         s.year,
		Months:       core.Months,
		CurrentMonth: currentMonth,
		Categories:   core.Categories,
		Activities:   core.ActivityTypes,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleReload drops the in-memory ledgers and re-reads the store. Unsaved
// edits are lost, which is the point of the button.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	result := s.svc.Session().Load(r.Context())
	if s.caches != nil {
		s.caches.InvalidateAll()
	}

	slog.InfoContext(r.Context(), "Ledgers reloaded",
		"tithes", result.Tithes.String(),
		"attendance", result.Attendance.String())

	NewHTMXResponse().
		TriggerLedgerReloaded().
		TriggerSuccessNotification("Dados recarregados (dízimos: " + result.Tithes.String() + ", frequência: " + result.Attendance.String() + ")").
		BodyHTML(`<div class="success">Dados recarregados</div>`).
		Write(w)
}
