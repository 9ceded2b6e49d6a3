// main is the entry point for the MatchDay API server.
//
// It reads configuration from environment variables, opens the SQLite
// database, wires the write queue, stores, lifecycle engine, and
// session store together, registers all HTTP routes, and starts
// listening. This is the composition root — the single place where the
// independent packages meet, so everything else stays testable in
// isolation.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/kmuriuki/matchday/internal/db"
	"github.com/kmuriuki/matchday/internal/handlers"
	"github.com/kmuriuki/matchday/internal/lifecycle"
	"github.com/kmuriuki/matchday/internal/middleware"
	"github.com/kmuriuki/matchday/internal/queue"
	"github.com/kmuriuki/matchday/internal/session"
	"github.com/kmuriuki/matchday/internal/store"
)

func main() {
	// ── Configuration ────────────────────────────────────────────────
	// DATABASE_URL uses modernc.org/sqlite URI parameters:
	//   _pragma=foreign_keys(1)   — enforce FK constraints on every connection
	//   _pragma=journal_mode(WAL) — readers don't block writers
	//   _pragma=busy_timeout(5000) — wait up to 5 s instead of returning SQLITE_BUSY
	dsn := getenv("DATABASE_URL",
		"matchday.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	jwtSecret := getenv("JWT_SECRET", "changeme-use-a-real-secret-in-production")
	addr := getenv("ADDR", ":8080")
	sessionPath := getenv("SESSION_FILE", filepath.Join(dataDir(), "session.json"))

	// ── Logging ──────────────────────────────────────────────────────
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(log)

	// ── Database ─────────────────────────────────────────────────────
	// db.Open creates the file if it doesn't exist and runs the
	// CREATE TABLE IF NOT EXISTS migrations automatically.
	database, err := db.Open(dsn)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer database.Close()

	// ── Stores and engine ────────────────────────────────────────────
	// All writes funnel through one queue so they apply strictly in the
	// order they were requested.
	writeQueue := queue.New(log)
	users := store.NewUserStore(database, writeQueue, log)
	events := store.NewEventStore(database, writeQueue, log)
	engine := lifecycle.New(events, log)
	sessions := session.New(session.NewFileStore(sessionPath), log)

	srv := &handlers.Server{
		Users:    users,
		Events:   events,
		Engine:   engine,
		Sessions: sessions,
		Secret:   jwtSecret,
	}

	// ── Router ───────────────────────────────────────────────────────
	// Go 1.22+ ServeMux supports method prefixes ("GET /path") and path
	// wildcards ("{id}") natively — no third-party router needed.
	mux := http.NewServeMux()

	// Public routes — no token required.
	mux.HandleFunc("POST /api/auth/register", srv.Register)
	mux.HandleFunc("POST /api/auth/login", srv.Login)
	mux.HandleFunc("GET /api/events", srv.ListEvents)

	// Authenticated routes. GetEvent needs the caller's identity so the
	// host dashboard view can expire stale join requests.
	auth := middleware.Authenticate(jwtSecret)
	mux.Handle("POST /api/auth/logout", auth(http.HandlerFunc(srv.Logout)))
	mux.Handle("GET /api/auth/me", auth(http.HandlerFunc(srv.Me)))
	mux.Handle("GET /api/events/{id}", auth(http.HandlerFunc(srv.GetEvent)))
	mux.Handle("POST /api/events", auth(http.HandlerFunc(srv.CreateEvent)))
	mux.Handle("PATCH /api/events/{id}", auth(http.HandlerFunc(srv.UpdateEvent)))
	mux.Handle("DELETE /api/events/{id}", auth(http.HandlerFunc(srv.DeleteEvent)))
	mux.Handle("POST /api/events/{id}/join", auth(http.HandlerFunc(srv.JoinEvent)))
	mux.Handle("POST /api/events/{id}/withdraw", auth(http.HandlerFunc(srv.WithdrawFromEvent)))
	mux.Handle("POST /api/events/{id}/participants/{user_id}/decision", auth(http.HandlerFunc(srv.DecideOnParticipant)))

	handler := middleware.CORS(mux)

	log.Info("MatchDay API listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server", "err", err)
		os.Exit(1)
	}
}

// getenv returns the value of the named environment variable, or
// fallback if the variable is not set or is empty.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// dataDir is where the session file lives by default. Falls back to
// the working directory when the OS config dir cannot be determined.
func dataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "matchday")
}
