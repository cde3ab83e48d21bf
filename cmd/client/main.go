package main

import (
	"context"
	"database/sql"
	"encoding/hex"
	"log"
	"log/slog"
	"net/http"

	_ "modernc.org/sqlite"

	"mergington/internal/adapters/api"
	emailPkg "mergington/internal/adapters/email"
	web "mergington/internal/adapters/http"
	"mergington/internal/adapters/storage"
	catalogStore "mergington/internal/adapters/storage/catalog"
	sessionStore "mergington/internal/adapters/storage/session"
	"mergington/internal/application/orchestrators"
	"mergington/internal/application/state"
	"mergington/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const templatesDir = "internal/adapters/http/templates"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sessions := sessionStore.NewSQLiteStore(db)
	snapshots := catalogStore.NewSQLiteStore(db)
	client := api.NewClient(cfg.ServerURL)
	store := state.New(cfg.BannerAutoHide, cfg.PanelAutoClose)

	// Configure the confirmation email sender
	var confirm emailPkg.Sender
	if cfg.ResendKey != "" {
		confirm = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		confirm = emailPkg.NewNoopSender()
		log.Println("Email sender configured (noop — set MERGINGTON_RESEND_KEY for real delivery)")
	}

	refreshDeps := orchestrators.RefreshDeps{API: client, State: store, Snapshots: snapshots}
	deps := web.Deps{
		State:   store,
		Refresh: refreshDeps,
		SignUp: orchestrators.SignUpDeps{
			API:       client,
			State:     store,
			Refresh:   refreshDeps,
			Confirm:   confirm,
			EmailFrom: cfg.EmailFrom,
		},
		Unregister: orchestrators.UnregisterDeps{API: client, State: store, Refresh: refreshDeps},
		Login:      orchestrators.LoginDeps{API: client, Sessions: sessions, State: store, Refresh: refreshDeps},
		Logout:     orchestrators.LogoutDeps{API: client, Sessions: sessions, State: store, Refresh: refreshDeps},
	}

	ctx := context.Background()

	// Restore the last catalog snapshot so a restart shows stale data
	// instead of an empty directory.
	if snapshot, fetchedAt, err := snapshots.Load(ctx); err != nil {
		slog.Warn("snapshot_load_failed", "error", err.Error())
	} else if len(snapshot) > 0 {
		store.LoadSnapshot(snapshot, fetchedAt)
		slog.Info("snapshot_restored", "activities", len(snapshot), "fetched_at", fetchedAt)
	}

	// Reconcile the durable token with the server before first render.
	statusDeps := orchestrators.CheckStatusDeps{API: client, Sessions: sessions, State: store}
	if auth, err := orchestrators.ExecuteCheckStatus(ctx, statusDeps); err != nil {
		slog.Warn("startup_status_check_failed", "error", err.Error())
	} else if auth.Authenticated {
		slog.Info("session_restored", "username", auth.Username)
	}

	// Initial fetch; failure leaves the restored snapshot marked stale.
	if err := orchestrators.ExecuteRefresh(ctx, refreshDeps); err != nil {
		slog.Warn("startup_refresh_failed", "error", err.Error())
	}

	var csrfKey []byte
	if cfg.CSRFKey != "" {
		csrfKey, err = hex.DecodeString(cfg.CSRFKey)
		if err != nil || len(csrfKey) != 32 {
			log.Fatal("MERGINGTON_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
	}

	mux := web.NewMux(templatesDir, deps, csrfKey)

	log.Printf("Mergington activities client %s starting on %s (server=%s)", version, cfg.Addr, cfg.ServerURL)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
