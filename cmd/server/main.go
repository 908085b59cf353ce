package main

import (
	"net/http"

	"spendtrack/internal/auth"
	"spendtrack/internal/config"
	"spendtrack/internal/handlers"
	"spendtrack/internal/ledger"
	"spendtrack/internal/logger"
	"spendtrack/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		logger.SetJSON()
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	if err := seedAdmin(db, cfg); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	if err := db.CleanExpiredSessions(); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to clean expired sessions")
	}

	svc := ledger.NewService(db)
	h := handlers.NewHandlers(db, svc, cfg.TemplateDir, cfg.SecureCookie, cfg.CurrencySymbol)
	mux := setupRouter(h, cfg.StaticDir)

	addr := ":" + cfg.Port
	logger.Log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Log.Fatal().Err(err).Msg("server stopped")
	}
}

// seedAdmin creates the admin account from env on first boot. Existing
// accounts are left untouched.
func seedAdmin(db *storage.DB, cfg *config.Config) error {
	if cfg.AdminUser == "" {
		return nil
	}
	if _, err := db.GetUserByUsername(cfg.AdminUser); err == nil {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user, err := db.CreateUser(cfg.AdminUser, hash, true)
	if err != nil {
		return err
	}
	logger.Log.Info().Str("user", user.Username).Msg("admin account created")
	return nil
}

// setupRouter wires all routes onto a fresh mux.
func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	mux.Handle("GET /dashboard", h.AuthMiddleware(http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /expenses", h.AuthMiddleware(http.HandlerFunc(h.AddExpense)))
	mux.Handle("GET /expenses/reset", h.AuthMiddleware(http.HandlerFunc(h.ResetForm)))
	mux.Handle("POST /expenses/reset", h.AuthMiddleware(http.HandlerFunc(h.Reset)))
	mux.Handle("POST /budget", h.AuthMiddleware(http.HandlerFunc(h.SetBudget)))
	mux.Handle("GET /report", h.AuthMiddleware(http.HandlerFunc(h.Report)))
	mux.Handle("GET /chart", h.AuthMiddleware(http.HandlerFunc(h.BucketChart)))
	mux.Handle("GET /chart/categories", h.AuthMiddleware(http.HandlerFunc(h.CategoryChart)))
	mux.Handle("POST /feedback", h.AuthMiddleware(http.HandlerFunc(h.SubmitFeedback)))

	mux.Handle("GET /admin", h.AdminMiddleware(http.HandlerFunc(h.Admin)))
	mux.Handle("POST /admin/feedback/delete", h.AdminMiddleware(http.HandlerFunc(h.DeleteFeedback)))

	return mux
}
