package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kiba/internal/adapters/email"
	"kiba/internal/adapters/http/middleware"
	attendanceStore "kiba/internal/adapters/storage/attendance"
	categoryStore "kiba/internal/adapters/storage/category"
	memberStore "kiba/internal/adapters/storage/member"
	paymentStore "kiba/internal/adapters/storage/payment"
	positionStore "kiba/internal/adapters/storage/position"
	userStore "kiba/internal/adapters/storage/user"
	"kiba/internal/application/resolver"
	"kiba/internal/application/session"
)

// Stores holds all storage dependencies.
type Stores struct {
	CategoryStore   categoryStore.Store
	PositionStore   positionStore.Store
	MemberStore     memberStore.Store
	PaymentStore    paymentStore.Store
	AttendanceStore attendanceStore.Store
	UserStore       userStore.Store
}

// loadCSRFKey reads the CSRF secret from KIBA_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("KIBA_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("KIBA_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("KIBA_ENV") == "production" {
		log.Fatal("KIBA_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (form tokens won't survive restart). Set KIBA_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance (set by NewMux)
var sessions *session.Store

// Global relation resolver (set by NewMux)
var entityResolver *resolver.Resolver

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender = email.NewNoopSender()

// emailFromAddress is the default sender address for outgoing mail.
var emailFromAddress string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from string) {
	emailSender = sender
	emailFromAddress = from
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, sess *session.Store) http.Handler {
	stores = s
	sessions = sess
	entityResolver = resolver.New(s.CategoryStore, s.PositionStore, s.MemberStore)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	mux.Handle("/metrics", promhttp.Handler())
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sess),
		middleware.RateLimit(limiter),
		middleware.Timing(metricPath),
	)
}
