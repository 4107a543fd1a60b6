package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "kiba/internal/adapters/email"
	web "kiba/internal/adapters/http"
	"kiba/internal/adapters/storage"
	attendanceStore "kiba/internal/adapters/storage/attendance"
	categoryStore "kiba/internal/adapters/storage/category"
	memberStore "kiba/internal/adapters/storage/member"
	paymentStore "kiba/internal/adapters/storage/payment"
	positionStore "kiba/internal/adapters/storage/position"
	userStore "kiba/internal/adapters/storage/user"
	"kiba/internal/application/orchestrators"
	"kiba/internal/application/session"
	userDomain "kiba/internal/domain/user"
	"kiba/pkg/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	logging.Setup()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("KIBA_DB_PATH", "kiba.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}
	slog.Info("startup_event", "event", "database_ready", "path", dbPath)

	// Wrap DB with timing instrumentation (slow-query log + Prometheus)
	timedDB := storage.NewTimedDB(db)

	users := userStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		CategoryStore:   categoryStore.NewSQLiteStore(timedDB),
		PositionStore:   positionStore.NewSQLiteStore(timedDB),
		MemberStore:     memberStore.NewSQLiteStore(timedDB),
		PaymentStore:    paymentStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		UserStore:       users,
	}

	// Seed a default admin account when the user table is empty
	if err := seedAdmin(context.Background(), users); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Session store: hydrates the current user from its file exactly once
	sessionPath := envOrDefault("KIBA_SESSION_FILE", "kiba_session.json")
	sessions := session.NewStore(users, sessionPath)
	if err := sessions.Initialize(context.Background()); err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("KIBA_RESEND_KEY")
	emailFrom := envOrDefault("KIBA_EMAIL_FROM", "Club KIBA <noreply@kiba.club>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom)
		if os.Getenv("KIBA_ENV") == "production" {
			log.Println("WARNING: KIBA_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set KIBA_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(envOrDefault("KIBA_STATIC_DIR", "static"), stores, sessions)

	addr := envOrDefault("KIBA_ADDR", ":8080")
	log.Printf("KIBA %s starting on %s (env=%s)", version, addr, envOrDefault("KIBA_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin registers the default admin account on first boot. Later boots
// find a non-empty user table and leave it alone.
func seedAdmin(ctx context.Context, users userStore.Store) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminEmail := envOrDefault("KIBA_ADMIN_EMAIL", "admin@kiba.com")
	adminPassword := envOrDefault("KIBA_ADMIN_PASSWORD", "admin123")

	_, err = orchestrators.ExecuteRegisterUser(ctx, orchestrators.RegisterUserInput{
		Name:     "Administrator",
		Email:    adminEmail,
		Password: adminPassword,
		Role:     userDomain.RoleAdmin,
	}, orchestrators.RegisterUserDeps{
		UserStore:  users,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	})
	if err != nil {
		return err
	}
	slog.Info("startup_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
