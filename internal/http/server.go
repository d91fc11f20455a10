package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"huishoudboekje/internal/core"
	applog "huishoudboekje/internal/log"
	"huishoudboekje/internal/services"
)

// Store is everything the handlers need from the repository.
type Store interface {
	// Ledger rows
	InsertIncome(ctx context.Context, in core.Income) (int64, error)
	UpdateIncome(ctx context.Context, in core.Income) error
	DeleteIncome(ctx context.Context, id int64) error
	InsertTax(ctx context.Context, t core.Tax) (int64, error)
	UpdateTax(ctx context.Context, t core.Tax) error
	DeleteTax(ctx context.Context, id int64) error
	ExpensesByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error)
	InsertExpense(ctx context.Context, e core.Expense) (int64, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
	InsertDiscretionary(ctx context.Context, d core.DiscretionaryExpense) (int64, error)
	UpdateDiscretionary(ctx context.Context, d core.DiscretionaryExpense) error
	DeleteDiscretionary(ctx context.Context, id int64) error

	// Balance accounts
	InsertBalanceAccount(ctx context.Context, a core.BalanceAccount) (int64, error)
	UpdateBalanceAccount(ctx context.Context, a core.BalanceAccount) error
	DeleteBalanceAccount(ctx context.Context, id int64) error
	GetBalanceAccount(ctx context.Context, id int64) (core.BalanceAccount, error)
	ListBalanceAccounts(ctx context.Context) ([]core.BalanceAccount, error)
	ExpensesByAccount(ctx context.Context, accountID int64) ([]core.Expense, error)
	SnapshotsByAccount(ctx context.Context, accountID int64) ([]core.BalanceSnapshot, error)

	// Budgets
	InsertBudget(ctx context.Context, b core.BudgetEntry) (int64, error)
	UpdateBudget(ctx context.Context, b core.BudgetEntry) error
	DeleteBudget(ctx context.Context, id int64) error
	ListBudgets(ctx context.Context) ([]core.BudgetEntry, error)
	InsertBudgetExpense(ctx context.Context, e core.BudgetExpense) (int64, error)
	DeleteBudgetExpense(ctx context.Context, id int64) error
	BudgetExpenses(ctx context.Context, budgetID int64) ([]core.BudgetExpense, error)
}

type Server struct {
	http.Server
	store        Store
	orchestrator *services.CarryOverOrchestrator
	statements   *services.StatementService
	rateLimiter  *rateLimiter
	logger       *applog.Logger

	// Month payloads are cached per month key and invalidated by every
	// write touching that month.
	monthCache *lruCache[monthJSON]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, orchestrator *services.CarryOverOrchestrator, statements *services.StatementService, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            store,
		orchestrator:     orchestrator,
		statements:       statements,
		rateLimiter:      newRateLimiter(),
		logger:           applog.Component(applog.ComponentHTTP),
		monthCache:       newLRUCache[monthJSON](100, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /months/{month}", s.secured(s.handleGetMonth))
	mux.HandleFunc("GET /months/{month}/summary", s.secured(s.handleGetSummary))
	mux.HandleFunc("POST /months/{month}/carry", s.secured(s.handleManualCarry))

	mux.HandleFunc("POST /incomes", s.secured(s.handleCreateIncome))
	mux.HandleFunc("PUT /incomes/{id}", s.secured(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /incomes/{id}", s.secured(s.handleDeleteIncome))
	mux.HandleFunc("POST /taxes", s.secured(s.handleCreateTax))
	mux.HandleFunc("PUT /taxes/{id}", s.secured(s.handleUpdateTax))
	mux.HandleFunc("DELETE /taxes/{id}", s.secured(s.handleDeleteTax))
	mux.HandleFunc("POST /expenses", s.secured(s.handleCreateExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.secured(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.secured(s.handleDeleteExpense))
	mux.HandleFunc("POST /discretionary", s.secured(s.handleCreateDiscretionary))
	mux.HandleFunc("PUT /discretionary/{id}", s.secured(s.handleUpdateDiscretionary))
	mux.HandleFunc("DELETE /discretionary/{id}", s.secured(s.handleDeleteDiscretionary))

	mux.HandleFunc("GET /accounts", s.secured(s.handleListAccounts))
	mux.HandleFunc("POST /accounts", s.secured(s.handleCreateAccount))
	mux.HandleFunc("PUT /accounts/{id}", s.secured(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.secured(s.handleDeleteAccount))
	mux.HandleFunc("GET /accounts/{id}/projection", s.secured(s.handleAccountProjection))
	mux.HandleFunc("GET /accounts/{id}/history", s.secured(s.handleAccountHistory))

	mux.HandleFunc("GET /budgets", s.secured(s.handleListBudgets))
	mux.HandleFunc("POST /budgets", s.secured(s.handleCreateBudget))
	mux.HandleFunc("PUT /budgets/{id}", s.secured(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.secured(s.handleDeleteBudget))
	mux.HandleFunc("POST /budgets/{id}/expenses", s.secured(s.handleCreateBudgetExpense))
	mux.HandleFunc("DELETE /budget-expenses/{id}", s.secured(s.handleDeleteBudgetExpense))

	mux.HandleFunc("GET /months/{month}/statements", s.secured(s.handleListStatements))
	mux.HandleFunc("POST /months/{month}/statements", s.secured(s.handleUploadStatement))
	mux.HandleFunc("GET /statements/{id}", s.secured(s.handleDownloadStatement))
	mux.HandleFunc("DELETE /statements/{id}", s.secured(s.handleDeleteStatement))

	return s
}

// secured adds security headers, rate limiting, and request logging.
func (s *Server) secured(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		logger := s.logger.With(
			applog.FieldRequestID, requestID,
			applog.FieldClientIP, clientIP)
		ctx = applog.NewContext(ctx, logger)
		r = r.WithContext(ctx)

		logger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)

		// Rate limit writes only; reads are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WithComponent(applog.ComponentRateLimit).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.monthCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateMonth(m core.MonthKey) {
	s.monthCache.Delete(m.String())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
