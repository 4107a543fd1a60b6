package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "kiba/internal/adapters/http"
	"kiba/internal/adapters/storage"
	attendanceStore "kiba/internal/adapters/storage/attendance"
	categoryStore "kiba/internal/adapters/storage/category"
	memberStore "kiba/internal/adapters/storage/member"
	paymentStore "kiba/internal/adapters/storage/payment"
	positionStore "kiba/internal/adapters/storage/position"
	userStore "kiba/internal/adapters/storage/user"
	"kiba/internal/application/session"
	userDomain "kiba/internal/domain/user"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
// Tests are skipped when no Playwright browser is installed on the host.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	users := userStore.NewSQLiteStore(db)
	stores := &web.Stores{
		CategoryStore:   categoryStore.NewSQLiteStore(db),
		PositionStore:   positionStore.NewSQLiteStore(db),
		MemberStore:     memberStore.NewSQLiteStore(db),
		PaymentStore:    paymentStore.NewSQLiteStore(db),
		AttendanceStore: attendanceStore.NewSQLiteStore(db),
		UserStore:       users,
	}

	ctx := context.Background()
	admin := userDomain.User{
		ID: "admin-browser-001", Name: "Admin", Email: "admin@test.com",
		Password: "TestPass123!", Role: userDomain.RoleAdmin,
	}
	if err := users.Save(ctx, admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	sessions := session.NewStore(users, filepath.Join(tmpDir, "session.json"))
	if err := sessions.Initialize(ctx); err != nil {
		t.Fatalf("failed to initialize session store: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	web.RateLimitPerSecond = 1000
	mux := web.NewMux(tmpDir, stores, sessions)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		db.Close()
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		db.Close()
		t.Skipf("chromium unavailable: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login authenticates the seeded admin through the JSON API.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	resp, err := page.Request().Post(a.BaseURL+"/api/login", playwright.APIRequestContextPostOptions{
		Headers: map[string]string{"Content-Type": "application/json"},
		Data:    map[string]any{"Email": "admin@test.com", "Password": "TestPass123!"},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.Status() != http.StatusOK {
		t.Fatalf("login returned status %d", resp.Status())
	}
}
