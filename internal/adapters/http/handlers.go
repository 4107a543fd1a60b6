package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"kiba/internal/adapters/http/middleware"
	"kiba/internal/adapters/storage"
	"kiba/internal/application/orchestrators"
	"kiba/internal/application/projections"
	"kiba/internal/application/session"
	userDomain "kiba/internal/domain/user"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs and hides the failure behind a generic 500.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// respondError maps domain errors to HTTP status codes.
// NotFound -> 404, InvalidCredentials -> 401, an unreachable store -> 503,
// everything else (validation, closed-set and store-constraint
// violations) -> 400.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, storage.ErrConstraint):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrUnavailable):
		slog.Error("store_unavailable", "error", err.Error())
		http.Error(w, "backing store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// userView is the wire shape of a console account. The credential secret
// never leaves the server.
type userView struct {
	ID    string `json:"ID"`
	Name  string `json:"Name"`
	Email string `json:"Email"`
	Role  string `json:"Role"`
}

func toUserView(u userDomain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// routes is the fixed route table. It doubles as the metric label
// whitelist: only paths registered here appear as Prometheus labels.
var routes = map[string]http.HandlerFunc{
	"/api/login":                       handleLogin,
	"/api/logout":                      handleLogout,
	"/api/session":                     handleSession,
	"/api/dashboard":                   handleDashboard,
	"/api/members":                     handleMembers,
	"/api/members/profile":             handleMemberProfile,
	"/api/categories":                  handleCategories,
	"/api/positions":                   handlePositions,
	"/api/payments":                    handlePayments,
	"/api/payments/status":             handlePaymentStatus,
	"/api/payments/reminders":          handlePaymentReminders,
	"/api/attendance":                  handleAttendance,
	"/api/attendance/status":           handleAttendanceStatus,
	"/api/attendance/mark-all-present": handleMarkAllPresent,
	"/api/users":                       handleUsers,
	"/healthz":                         handleHealthz,
}

func registerRoutes(mux *http.ServeMux) {
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
}

// metricPath collapses a request path onto the fixed route set so metric
// labels stay bounded. The root file server swallows arbitrary paths, and
// each would otherwise mint a fresh label pair in the registry.
func metricPath(path string) string {
	if _, ok := routes[path]; ok {
		return path
	}
	if path == "/metrics" {
		return path
	}
	return "other"
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	u, err := sessions.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserView(u))
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sessions.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleSession handles GET /api/session
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	u, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}

// handleDashboard handles GET /api/dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metrics, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		MemberStore:     stores.MemberStore,
		PaymentStore:    stores.PaymentStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// handleMembers handles GET/POST/PUT/DELETE /api/members
func handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListDeps{
			MemberStore: stores.MemberStore,
			Resolver:    entityResolver,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var input orchestrators.CreateMemberInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		m, err := orchestrators.ExecuteCreateMember(r.Context(), input, orchestrators.CreateMemberDeps{
			MemberStore: stores.MemberStore,
			Resolver:    entityResolver,
			GenerateID:  generateID,
			Now:         timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)

	case "PUT":
		var input orchestrators.UpdateMemberInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		m, err := orchestrators.ExecuteUpdateMember(r.Context(), input, orchestrators.UpdateMemberDeps{
			MemberStore: stores.MemberStore,
			Resolver:    entityResolver,
			Now:         timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)

	case "DELETE":
		var input orchestrators.DeleteMemberInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteMember(r.Context(), input, orchestrators.DeleteMemberDeps{
			MemberStore: stores.MemberStore,
		}); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMemberProfile handles GET /api/members/profile?id=X
func handleMemberProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	profile, err := projections.QueryGetMemberProfile(r.Context(), projections.GetMemberProfileQuery{
		MemberID: id,
	}, projections.GetMemberProfileDeps{
		MemberStore:     stores.MemberStore,
		PaymentStore:    stores.PaymentStore,
		AttendanceStore: stores.AttendanceStore,
		Resolver:        entityResolver,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleCategories handles GET/POST /api/categories
func handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := stores.CategoryStore.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var input orchestrators.CreateCategoryInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		c, err := orchestrators.ExecuteCreateCategory(r.Context(), input, orchestrators.CreateCategoryDeps{
			CategoryStore: stores.CategoryStore,
			GenerateID:    generateID,
			Now:           timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePositions handles GET/POST /api/positions
func handlePositions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := stores.PositionStore.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var input orchestrators.CreatePositionInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteCreatePosition(r.Context(), input, orchestrators.CreatePositionDeps{
			PositionStore: stores.PositionStore,
			GenerateID:    generateID,
			Now:           timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePayments handles GET/POST /api/payments
func handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := projections.QueryGetPaymentList(r.Context(), projections.GetPaymentListDeps{
			PaymentStore: stores.PaymentStore,
			Resolver:     entityResolver,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var input orchestrators.RecordPaymentInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteRecordPayment(r.Context(), input, orchestrators.RecordPaymentDeps{
			PaymentStore: stores.PaymentStore,
			Resolver:     entityResolver,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePaymentStatus handles PUT /api/payments/status
func handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.UpdatePaymentStatusInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteUpdatePaymentStatus(r.Context(), input, orchestrators.UpdatePaymentStatusDeps{
		PaymentStore: stores.PaymentStore,
		Resolver:     entityResolver,
		Now:          timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePaymentReminders handles POST /api/payments/reminders (admin only)
func handlePaymentReminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !middleware.IsRole(r.Context(), userDomain.RoleAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	result, err := orchestrators.ExecuteSendPaymentReminders(r.Context(), orchestrators.SendPaymentRemindersInput{
		From: emailFromAddress,
	}, orchestrators.SendPaymentRemindersDeps{
		PaymentStore: stores.PaymentStore,
		Resolver:     entityResolver,
		Sender:       emailSender,
		Now:          timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAttendance handles GET/POST /api/attendance
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list, err := projections.QueryGetAttendanceList(r.Context(), projections.GetAttendanceListDeps{
			AttendanceStore: stores.AttendanceStore,
			Resolver:        entityResolver,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var input orchestrators.MarkAttendanceInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		a, err := orchestrators.ExecuteMarkAttendance(r.Context(), input, orchestrators.MarkAttendanceDeps{
			AttendanceStore: stores.AttendanceStore,
			Resolver:        entityResolver,
			GenerateID:      generateID,
			Now:             timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAttendanceStatus handles PUT /api/attendance/status
func handleAttendanceStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.UpdateAttendanceStatusInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	a, err := orchestrators.ExecuteUpdateAttendanceStatus(r.Context(), input, orchestrators.UpdateAttendanceStatusDeps{
		AttendanceStore: stores.AttendanceStore,
		Resolver:        entityResolver,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleMarkAllPresent handles POST /api/attendance/mark-all-present
func handleMarkAllPresent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.MarkAllPresentInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteMarkAllPresent(r.Context(), input, orchestrators.MarkAllPresentDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		GenerateID:      generateID,
		Now:             timeNow,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUsers handles GET/POST /api/users (admin only)
func handleUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsRole(r.Context(), userDomain.RoleAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	switch r.Method {
	case "GET":
		list, err := stores.UserStore.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		views := make([]userView, 0, len(list))
		for _, u := range list {
			views = append(views, toUserView(u))
		}
		writeJSON(w, http.StatusOK, views)

	case "POST":
		var input orchestrators.RegisterUserInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		u, err := orchestrators.ExecuteRegisterUser(r.Context(), input, orchestrators.RegisterUserDeps{
			UserStore:  stores.UserStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserView(u))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
